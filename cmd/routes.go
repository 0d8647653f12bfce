package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)

	mux := pat.New()

	// Widget "consulta tu deuda"
	mux.Get("/api/consulta", standardMiddleware.ThenFunc(app.consultaHandler.Consultar))
	mux.Get("/api/valida", standardMiddleware.ThenFunc(app.consultaHandler.Validar))

	// Zona de clientes
	if app.authClient != nil {
		authMiddleware := standardMiddleware.Append(app.firebaseAuth)
		mux.Get("/api/mi-consulta", authMiddleware.ThenFunc(app.cuentaHandler.MiConsulta))
	}

	return mux
}
