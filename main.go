package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/oauth"
	"github.com/mbolis/club-site/app"
	"github.com/mbolis/club-site/config"
	"github.com/mbolis/club-site/database"
	"github.com/mbolis/club-site/httpx"
	"github.com/mbolis/club-site/log"
	"github.com/mbolis/club-site/routes"
	"github.com/mbolis/club-site/storage"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	store, err := storage.NewClient(cfg)
	if err != nil {
		log.Fatal("main.storage:", err)
	}

	bearerServer := oauth.NewBearerServer(
		cfg.TokenSecret,
		cfg.TokenTTL,
		httpx.CredentialsVerifier(db),
		nil,
	)

	app := app.App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,
		Storage:      store,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
