package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Events
	r.HandleFunc("/api/v1/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/v1/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/v1/events/{eventId}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/v1/events/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/v1/events/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/v1/events", deps.EventHandler.DeleteAllEvents).Methods("DELETE")
}
