package handlers

import (
	"errors"
	"log"
	"net/http"

	"alfatelBack/internal/models"
	"alfatelBack/internal/services"
)

type ConsultaHandler struct {
	Service  *services.ConsultaService
	ErrorLog *log.Logger
}

// Consultar handles GET /api/consulta?cedula=...
func (h *ConsultaHandler) Consultar(w http.ResponseWriter, r *http.Request) {
	cedula := r.URL.Query().Get("cedula")

	resumen, err := h.Service.Consultar(r.Context(), cedula)
	switch {
	case errors.Is(err, models.ErrCedulaRequired):
		writeError(w, http.StatusBadRequest, "Cédula requerida")
	case errors.Is(err, models.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "Cliente no encontrado")
	case err != nil:
		serverError(w, h.ErrorLog, err)
	default:
		writeJSON(w, http.StatusOK, resumen)
	}
}

// Validar handles GET /api/valida?cedula=... — the lightweight existence check
// the registration form runs before creating an account.
func (h *ConsultaHandler) Validar(w http.ResponseWriter, r *http.Request) {
	cedula := r.URL.Query().Get("cedula")

	existe, err := h.Service.ValidarCliente(r.Context(), cedula)
	switch {
	case errors.Is(err, models.ErrCedulaRequired):
		writeError(w, http.StatusBadRequest, "Cédula requerida")
	case err != nil:
		serverError(w, h.ErrorLog, err)
	default:
		writeJSON(w, http.StatusOK, models.ValidacionCliente{Existe: existe})
	}
}
