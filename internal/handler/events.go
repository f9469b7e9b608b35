package handler

import (
	"net/http"
	"time"

	"github.com/forumkit/wagerhall/internal/domain"
	"github.com/forumkit/wagerhall/internal/repository"
	"github.com/forumkit/wagerhall/internal/wagering"
)

// EventHandler serves the event lifecycle endpoints
type EventHandler struct {
	service wagering.Service
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(service wagering.Service) *EventHandler {
	return &EventHandler{service: service}
}

// CreateEventRequest is the payload for creating an event
type CreateEventRequest struct {
	CreatorID      string    `json:"creator_id" validate:"required,uuid"`
	Title          string    `json:"title" validate:"required,max=200"`
	Kind           string    `json:"kind" validate:"required,eventkind"`
	Category       string    `json:"category" validate:"max=50"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
	MinWagerAmount int64     `json:"min_wager_amount" validate:"gte=0"`
	Options        []string  `json:"options" validate:"required,min=2,max=10,dive,required"`
}

// HandleCreateEvent creates a new Pending event
func (h *EventHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create event"); err != nil {
		return
	}

	evt, err := h.service.CreateEvent(r.Context(), wagering.CreateEventInput{
		CreatorID:      req.CreatorID,
		Title:          req.Title,
		Kind:           domain.EventKind(req.Kind),
		Category:       req.Category,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		MinWagerAmount: req.MinWagerAmount,
		Options:        req.Options,
	})
	if err != nil {
		respondServiceError(w, r, "Create event", err)
		return
	}

	respondJSON(w, http.StatusCreated, evt)
}

// HandleListEvents lists events, optionally filtered by status, kind and
// category query parameters
func (h *EventHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	var filter repository.EventFilter

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.EventStatus(raw)
		switch status {
		case domain.EventStatusPending, domain.EventStatusActive,
			domain.EventStatusFinished, domain.EventStatusCancelled:
			filter.Status = &status
		default:
			respondError(w, http.StatusBadRequest, ErrMsgInvalidStatus)
			return
		}
	}

	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind := domain.EventKind(raw)
		if kind != domain.KindWager && kind != domain.KindPoll {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidKind)
			return
		}
		filter.Kind = &kind
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		filter.Category = &raw
	}

	events, err := h.service.ListEvents(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "List events", err)
		return
	}
	if events == nil {
		events = []domain.Event{}
	}

	respondJSON(w, http.StatusOK, events)
}

// HandleGetEvent returns a single event with options and current odds
func (h *EventHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	evt, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Get event", err)
		return
	}

	respondJSON(w, http.StatusOK, evt)
}

// HandleDeleteEvent destroys an event that has no settled economy attached
func (h *EventHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		respondServiceError(w, r, "Delete event", err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Message: "event deleted"})
}

// HandleActivateEvent opens an event for wagers
func (h *EventHandler) HandleActivateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	evt, err := h.service.ActivateEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Activate event", err)
		return
	}

	respondJSON(w, http.StatusOK, evt)
}

// HandleFinishEvent closes an event to further wagers
func (h *EventHandler) HandleFinishEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	evt, err := h.service.FinishEvent(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, "Finish event", err)
		return
	}

	respondJSON(w, http.StatusOK, evt)
}

// SetWinnerRequest is the payload for declaring the winning option
type SetWinnerRequest struct {
	OptionID int `json:"option_id" validate:"required"`
}

// HandleSetWinner records the winning option of a Finished event
func (h *EventHandler) HandleSetWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := URLParamUUID(r, w, "id", ErrMsgInvalidEventID)
	if !ok {
		return
	}

	var req SetWinnerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set winner"); err != nil {
		return
	}

	evt, err := h.service.SetWinner(r.Context(), id, req.OptionID)
	if err != nil {
		respondServiceError(w, r, "Set winner", err)
		return
	}

	respondJSON(w, http.StatusOK, evt)
}
