package handler

import (
	"net/http"

	"github.com/forumkit/wagerhall/internal/settlement"
)

// SettlementHandler serves the operator settlement endpoints
type SettlementHandler struct {
	service settlement.Service
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(service settlement.Service) *SettlementHandler {
	return &SettlementHandler{service: service}
}

// HandleSettleEvent runs the payout for a Finished event
func (h *SettlementHandler) HandleSettleEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	summary, err := h.service.Settle(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, r, "Settle event", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// HandleCancelEvent refunds pending stakes and cancels the event
func (h *SettlementHandler) HandleCancelEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	summary, err := h.service.Cancel(r.Context(), eventID)
	if err != nil {
		respondServiceError(w, r, "Cancel event", err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// HandleResettleRecord repairs one record left Pending after settlement
func (h *SettlementHandler) HandleResettleRecord(w http.ResponseWriter, r *http.Request) {
	recordID, ok := URLParamUUID(r, w, "id", ErrMsgInvalidRecordID)
	if !ok {
		return
	}

	record, err := h.service.ResettleRecord(r.Context(), recordID)
	if err != nil {
		respondServiceError(w, r, "Resettle record", err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}
