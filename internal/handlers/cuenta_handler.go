package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"

	"alfatelBack/internal/models"
	"alfatelBack/internal/services"
)

// CedulaStore reads the cédula saved for a login at registration time.
// Implemented by FirestoreUsuarios in production.
type CedulaStore interface {
	CedulaForUID(ctx context.Context, uid string) (string, error)
}

// FirestoreUsuarios resolves uids against the usuarios collection.
type FirestoreUsuarios struct {
	Client *firestore.Client
}

const usuariosCollection = "usuarios"

func (s *FirestoreUsuarios) CedulaForUID(ctx context.Context, uid string) (string, error) {
	doc, err := s.Client.Collection(usuariosCollection).Doc(uid).Get(ctx)
	if err != nil {
		if doc != nil && !doc.Exists() {
			return "", models.ErrCedulaNotLinked
		}
		return "", err
	}
	raw, err := doc.DataAt("cedula")
	if err != nil {
		return "", models.ErrCedulaNotLinked
	}
	cedula, _ := raw.(string)
	if cedula == "" {
		return "", models.ErrCedulaNotLinked
	}
	return cedula, nil
}

// CuentaHandler serves the logged-in client zone. The cédula is never taken
// from the request here: it comes from the usuarios document written at
// registration, so a session can only ever query its own account.
type CuentaHandler struct {
	Service  *services.ConsultaService
	Usuarios CedulaStore
	ErrorLog *log.Logger
}

// MiConsulta handles GET /api/mi-consulta. The Firebase middleware has already
// verified the ID token and put the uid in the request context.
func (h *CuentaHandler) MiConsulta(w http.ResponseWriter, r *http.Request) {
	uid, ok := r.Context().Value(ContextKeyUID).(string)
	if !ok || uid == "" {
		writeError(w, http.StatusUnauthorized, "No autorizado")
		return
	}

	cedula, err := h.Usuarios.CedulaForUID(r.Context(), uid)
	if errors.Is(err, models.ErrCedulaNotLinked) {
		writeError(w, http.StatusNotFound, "No hay cédula vinculada a esta cuenta")
		return
	}
	if err != nil {
		serverError(w, h.ErrorLog, err)
		return
	}

	resumen, err := h.Service.Consultar(r.Context(), cedula)
	switch {
	case errors.Is(err, models.ErrCedulaRequired), errors.Is(err, models.ErrClientNotFound):
		// La cédula guardada ya no figura en facturación.
		writeError(w, http.StatusNotFound, "Cliente no encontrado")
	case err != nil:
		serverError(w, h.ErrorLog, err)
	default:
		writeJSON(w, http.StatusOK, resumen)
	}
}
