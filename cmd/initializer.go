package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/auth"

	"alfatelBack/internal/config"
	"alfatelBack/internal/handlers"
	"alfatelBack/internal/repositories"
	"alfatelBack/internal/services"
)

// tokenVerifier is what the auth middleware needs from the Firebase auth
// client. Satisfied by *auth.Client.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	authClient tokenVerifier
	firestore  *firestore.Client

	consultaHandler *handlers.ConsultaHandler
	cuentaHandler   *handlers.CuentaHandler
}

func initializeApp(cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	repo, err := repositories.NewWisproRepository(repositories.WisproConfig{
		BaseURL: cfg.Wispro.BaseURL,
		Token:   cfg.Wispro.Token,
		Logger:  slogger,
	})
	if err != nil {
		return nil, err
	}

	consultaService := services.NewConsultaService(repo, slogger)

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		consultaHandler: &handlers.ConsultaHandler{Service: consultaService, ErrorLog: errorLog},
		cuentaHandler:   &handlers.CuentaHandler{Service: consultaService, ErrorLog: errorLog},
	}, nil
}
