package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	firebase "firebase.google.com/go"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"google.golang.org/api/option"

	"alfatelBack/internal/config"
	"alfatelBack/internal/handlers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	cfg := config.LoadConfig()

	addrDefault := cfg.Server.Address
	if port := os.Getenv("PORT"); port != "" {
		addrDefault = ":" + port
	}
	addr := flag.String("addr", addrDefault, "HTTP network address")
	flag.Parse()

	infoLog := log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	errorLog := log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)

	app, err := initializeApp(cfg, errorLog, infoLog)
	if err != nil {
		errorLog.Fatal(err)
	}

	if cfg.Firebase.CredentialsFile != "" {
		if err := app.initFirebase(context.Background(), cfg.Firebase.CredentialsFile); err != nil {
			errorLog.Fatal(err)
		}
		defer app.firestore.Close()
	} else {
		infoLog.Println("Firebase credentials not configured, zona de clientes disabled")
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     errorLog,
		Handler:      c.Handler(app.routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	infoLog.Printf("Starting server on %s", *addr)
	if err := srv.ListenAndServe(); err != nil {
		errorLog.Fatal(err)
	}
}

func (app *application) initFirebase(ctx context.Context, credentialsFile string) error {
	fbApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return err
	}
	authClient, err := fbApp.Auth(ctx)
	if err != nil {
		return err
	}
	app.authClient = authClient
	app.firestore, err = fbApp.Firestore(ctx)
	if err != nil {
		return err
	}
	app.cuentaHandler.Usuarios = &handlers.FirestoreUsuarios{Client: app.firestore}
	return nil
}
