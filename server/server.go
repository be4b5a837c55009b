// Package server provides an HTTP REST server that stores grammars and checks,
// lists, and compares their words for clients.
//
// The API it serves is mounted at /api/v1:
//
//	POST   /login                       - accepts user and password and returns a jwt.
//	DELETE /login/{id}                  - ends user authentication session (auth required).
//	POST   /tokens                      - refreshes the token without requiring credentials (auth required).
//	GET    /users                       - get all users (admin auth required).
//	POST   /users                       - create a new user account (admin auth required).
//	GET    /users/{id}                  - get info on a user (auth required).
//	PATCH  /users/{id}                  - update a user (auth required).
//	DELETE /users/{id}                  - delete a user (auth required).
//	GET    /grammars                    - get info on all grammars.
//	POST   /grammars                    - compile and store a new grammar (auth required).
//	GET    /grammars/{id}               - get a grammar with its source and normal form.
//	DELETE /grammars/{id}               - delete a grammar (auth required).
//	POST   /grammars/{id}/check         - check words against a grammar.
//	GET    /grammars/{id}/words         - list the first words of a grammar.
//	GET    /grammars/{id}/words/stream  - stream the first words of a grammar over a websocket.
//	POST   /comparisons                 - compare the first words of two grammars.
//	GET    /info                        - get version info on the server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/grammarq/internal/cache"
	"github.com/dekarrin/grammarq/server/api"
	"github.com/dekarrin/grammarq/server/dao"
	"github.com/dekarrin/grammarq/server/gqs"
	"github.com/dekarrin/grammarq/server/serr"
	"github.com/dekarrin/grammarq/server/token"
	"github.com/go-chi/chi/v5"
)

// GrammarQServer is an HTTP REST server that provides grammars and the words
// of their languages. The zero-value of a GrammarQServer should not be used
// directly; call New() to get one ready for use.
type GrammarQServer struct {
	router chi.Router
	db     dao.Store
	cache  *cache.DB
	api    api.API
}

// New creates a new GrammarQServer from the given config. Unset values in cfg
// are filled with their defaults before it is validated.
func New(cfg Config) (*GrammarQServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, err
	}

	gs := &GrammarQServer{db: db}

	svc := gqs.Service{
		DB:       db,
		HashCost: cfg.HashCost,
	}

	if cfg.CachePath != "" {
		gs.cache, err = cache.Open(cfg.CachePath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("open grammar cache: %w", err)
		}
		svc.Compiler.Cache = gs.cache
	}

	gs.api = api.API{
		Backend:     svc,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}
	gs.router = newRouter(gs.api)

	return gs, nil
}

// Handler returns the handler that serves the server's API.
func (gs *GrammarQServer) Handler() http.Handler {
	return gs.router
}

// Service returns the backend service of the server, for direct programmatic
// access to it.
func (gs *GrammarQServer) Service() gqs.Service {
	return gs.api.Backend
}

// EnsureAdmin creates an admin user with the given username and password if
// no user with that username exists. It returns whether the user was created.
func (gs *GrammarQServer) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := gs.api.Backend.CreateUser(ctx, username, password, "", dao.Admin)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IssueToken creates a token for the user with the given username without
// checking their password.
func (gs *GrammarQServer) IssueToken(ctx context.Context, username string) (string, error) {
	user, err := gs.db.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return "", serr.New(fmt.Sprintf("no user named %q", username), serr.ErrNotFound)
		}
		return "", serr.WrapDB("", err)
	}

	return token.Generate(gs.api.Secret, user)
}

// ServeForever begins listening on the given address for HTTP REST client
// requests. The address must be in ADDRESS:PORT or :PORT format. If it is "",
// it will default to "localhost:8080". It only returns if the server cannot
// keep listening.
func (gs *GrammarQServer) ServeForever(address string) error {
	if address == "" {
		address = "localhost:8080"
	}

	log.Printf("INFO  Listening on %s", address)
	return http.ListenAndServe(address, gs.router)
}

// Close closes the persistence layer and the grammar cache of the server.
func (gs *GrammarQServer) Close() error {
	var cacheErr error
	if gs.cache != nil {
		cacheErr = gs.cache.Close()
	}

	if err := gs.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if cacheErr != nil {
		return fmt.Errorf("close grammar cache: %w", cacheErr)
	}
	return nil
}
