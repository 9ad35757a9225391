package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// handleBatchProgress upgrades the connection and streams batch progress
// events until the batch finishes or the client goes away. The first
// message is a snapshot of the current state so late subscribers catch up;
// for an already finished batch that snapshot is the only message.
func (s *Server) handleBatchProgress(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	events, unsubscribe := s.registry.subscribe(id)
	defer unsubscribe()

	state, err := s.registry.get(id)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	snapshot := BatchEvent{
		BatchID:        state.BatchID,
		Status:         state.Status,
		TotalItems:     state.TotalItems,
		CompletedItems: state.CompletedItems,
	}
	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
