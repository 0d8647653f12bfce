package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

// ContextKeyUID carries the verified Firebase uid from the auth middleware to
// the client-zone handlers.
const ContextKeyUID = contextKey("uid")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serverError hides the upstream detail from the caller and logs it with a
// reference id so soporte can correlate a user report with the log line.
func serverError(w http.ResponseWriter, errorLog *log.Logger, err error) {
	ref := uuid.NewString()
	errorLog.Printf("referencia=%s %v", ref, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":      "Error interno del servidor",
		"referencia": ref,
	})
}
