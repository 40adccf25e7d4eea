// Package api provides HTTP handlers and the main API server logic for
// ScreenFlow.
//
// It exposes RESTful endpoints for running screening conversations and for
// recruiter-facing queries over persisted interviews. The API integrates the
// flow, question, genai and store modules.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/TalentScoutHQ/ScreenFlow/internal/flow"
	"github.com/TalentScoutHQ/ScreenFlow/internal/genai"
	"github.com/TalentScoutHQ/ScreenFlow/internal/question"
	"github.com/TalentScoutHQ/ScreenFlow/internal/store"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the HTTP listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// Server hosts the screening conversation endpoints.
type Server struct {
	engine *flow.Engine
	store  store.Store
}

// NewServer creates an API server over a conversation engine and a store.
// The store may be nil, which disables the recruiter query endpoints' data.
func NewServer(engine *flow.Engine, st store.Store) *Server {
	return &Server{engine: engine, store: st}
}

// Handler builds the route table for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/turn", s.turnHandler)
	mux.HandleFunc("/greeting", s.greetingHandler)
	mux.HandleFunc("/reset", s.resetHandler)
	mux.HandleFunc("/candidates", s.candidatesHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.HandleFunc("/sessions", s.sessionsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

// Run wires the full service from option slices and blocks serving HTTP.
// With no store options the service runs on the in-memory store; with no
// usable GenAI options question generation falls back to the static pool.
func Run(storeOpts []store.Option, genaiOpts []genai.Option, apiOpts []Option) error {
	var apiCfg Opts
	for _, opt := range apiOpts {
		opt(&apiCfg)
	}
	addr := apiCfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	st, err := buildStore(storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	var client genai.ClientInterface
	if gc, err := genai.NewClient(genaiOpts...); err != nil {
		slog.Warn("api.Run: GenAI client unavailable, using static question pool", "error", err)
	} else {
		client = gc
	}

	engine := flow.NewEngine(flow.NewInterviewFlow(question.NewEngine(client), st))
	server := NewServer(engine, st)

	slog.Info("api.Run: ScreenFlow API listening", "addr", addr)
	return http.ListenAndServe(addr, server.Handler())
}

// buildStore selects the backend from the configured DSN: PostgreSQL or
// SQLite when a DSN is present, in-memory otherwise.
func buildStore(storeOpts []store.Option) (store.Store, error) {
	var cfg store.Opts
	for _, opt := range storeOpts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Info("api.buildStore: no DSN configured, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(cfg.DSN) == "postgres" {
		return store.NewPostgresStore(storeOpts...)
	}
	return store.NewSQLiteStore(storeOpts...)
}
