// Package cli implements the nutriscan command tree.
package cli

import (
	"github.com/nutriscan/nutriscan/internal/api"
	"github.com/nutriscan/nutriscan/internal/config"
	"github.com/nutriscan/nutriscan/internal/logging"
	"github.com/nutriscan/nutriscan/internal/query"
	"github.com/nutriscan/nutriscan/internal/session"
)

// App bundles the shared dependencies of every command.
type App struct {
	Cfg     *config.Config
	Log     logging.Logger
	Session *session.Store
	API     *api.Client
	Cache   *query.Cache
}

// NewApp wires the session store, API client and cache from config.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	store := session.NewStore(cfg.SessionFile)
	client := api.New(cfg.APIBaseURL,
		api.WithTokenSource(store),
		api.WithLogger(log),
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithRetryAttempts(cfg.RetryAttempts),
	)
	return &App{
		Cfg:     cfg,
		Log:     log,
		Session: store,
		API:     client,
		Cache:   query.NewCache(log),
	}
}
