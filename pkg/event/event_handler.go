package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdulbaasiterinkitola/tz-aware-events/internal/rest"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EventHandler struct {
	service   EventService
	projector *Projector
}

func NewEventHandler(service EventService, projector *Projector) *EventHandler {
	return &EventHandler{service: service, projector: projector}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateEvent(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeEvent(w, r, created, http.StatusCreated)
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.GetAllEvents(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	views, err := h.projector.ProjectAll(events, viewerZone(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(views); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Tracef("Events returned: %d", len(views))
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventId(w, r)
	if !ok {
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeEvent(w, r, event, http.StatusOK)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventId(w, r)
	if !ok {
		return
	}

	var input EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateEvent(r.Context(), id, input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeEvent(w, r, updated, http.StatusOK)
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.eventId(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) DeleteAllEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAllEvents(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) eventId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid event id",
			Details: "event id must be a UUID",
		}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return uuid.Nil, false
	}
	return id, true
}

func (h *EventHandler) writeEvent(w http.ResponseWriter, r *http.Request, event Event, status int) {
	view, err := h.projector.Project(event, viewerZone(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *EventHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTimeInput),
		errors.Is(err, ErrMissingRecurrenceField),
		errors.Is(err, ErrMissingDescription):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: err.Error(),
		}); encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
	default:
		log.Errorf("event request failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// viewerZone reads the viewer timezone from the request; projection defaults
// an empty value to UTC.
func viewerZone(r *http.Request) string {
	return r.URL.Query().Get("timeZone")
}
