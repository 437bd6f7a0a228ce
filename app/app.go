package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/club-site/config"
	"github.com/mbolis/club-site/storage"
)

type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Storage *storage.Client
}
