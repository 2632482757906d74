// Package server exposes the parser and the deck store over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"study-importer/internal/deck"
	"study-importer/internal/logger"
	"study-importer/internal/studydump"
)

// DeckStore is the subset of *deck.Store the handlers need.
type DeckStore interface {
	Import(ctx context.Context, title string, r studydump.Result) (*deck.Deck, error)
	Decks(ctx context.Context) ([]deck.Deck, error)
	Deck(ctx context.Context, id uuid.UUID) (*deck.Deck, error)
	Cards(ctx context.Context, deckID uuid.UUID) ([]deck.Card, error)
	Search(ctx context.Context, query string, limit int) ([]deck.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	Debug          bool
}

type Server struct {
	opts   Options
	store  DeckStore
	log    *logger.Logger
	router *gin.Engine
}

// New builds the router. store may be nil, in which case deck routes answer 503.
func New(opts Options, store DeckStore, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{opts: opts, store: store, log: log.With("component", "server")}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))
	router.Use(corsMiddleware(opts.AllowedOrigins))
	s.registerRoutes(router)
	s.router = router
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.healthz)

	api := r.Group("/api")
	api.POST("/parse", s.parse)
	api.POST("/validate", s.validate)

	decks := api.Group("/decks", s.requireStore)
	decks.GET("", s.listDecks)
	decks.POST("", s.importDeck)
	decks.GET("/:id", s.getDeck)
	decks.GET("/:id/cards", s.listCards)
	decks.DELETE("/:id", s.deleteDeck)

	api.GET("/cards/search", s.requireStore, s.searchCards)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
