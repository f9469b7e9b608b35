package handler

import (
	"net/http"

	"github.com/forumkit/wagerhall/internal/ledger"
	"github.com/forumkit/wagerhall/internal/wagering"
)

// WagerHandler serves wager placement and balance endpoints
type WagerHandler struct {
	wageringSvc wagering.Service
	ledgerSvc   ledger.Service
}

// NewWagerHandler creates a new WagerHandler
func NewWagerHandler(wageringSvc wagering.Service, ledgerSvc ledger.Service) *WagerHandler {
	return &WagerHandler{
		wageringSvc: wageringSvc,
		ledgerSvc:   ledgerSvc,
	}
}

// PlaceWagerRequest is the payload for placing a wager or poll vote
type PlaceWagerRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	OptionID int    `json:"option_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"gte=0"`
}

// HandlePlaceWager accepts a wager on an event option
func (h *WagerHandler) HandlePlaceWager(w http.ResponseWriter, r *http.Request) {
	eventID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	var req PlaceWagerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Place wager"); err != nil {
		return
	}

	result, err := h.wageringSvc.PlaceWager(r.Context(), eventID, req.UserID, req.OptionID, req.Amount)
	if err != nil {
		respondServiceError(w, r, "Place wager", err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// BalanceResponse reports a user's point balance
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// HandleGetBalance returns the user's current point balance
func (h *WagerHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidUserID)
	if !ok {
		return
	}

	balance, err := h.ledgerSvc.Balance(r.Context(), userID.String())
	if err != nil {
		respondServiceError(w, r, "Get balance", err)
		return
	}

	respondJSON(w, http.StatusOK, BalanceResponse{
		UserID:  userID.String(),
		Balance: balance,
	})
}
