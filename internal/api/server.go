package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/foundline/foundline-core/internal/auth"
	"github.com/foundline/foundline-core/internal/infrastructure/config"
	"github.com/foundline/foundline-core/internal/infrastructure/database"
	"github.com/foundline/foundline-core/internal/infrastructure/logging"
	"github.com/foundline/foundline-core/internal/registry"
	"github.com/foundline/foundline-core/internal/report"
	"github.com/foundline/foundline-core/internal/signal"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown. Found-report submissions block for the full
// device hold sequence, so this must exceed it.
const gracefulShutdownTimeout = 15 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	WS         config.WebSocketConfig
	Logger     *logging.Logger
	Identities registry.Repository
	Reports    report.Repository
	Intake     *report.Intake
	Signals    *signal.Controller
	Auth       *auth.Service
	DB         *database.DB
	Version    string
}

// Server is the HTTP API server for Foundline Core.
//
// It manages the HTTP listener, routes, middleware, and the WebSocket hub
// for the live dashboard feed. The server is created with New() and started
// with Start().
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	identities registry.Repository
	reports    report.Repository
	intake     *report.Intake
	signals    *signal.Controller
	auth       *auth.Service
	db         *database.DB
	version    string
	server     *http.Server
	hub        *Hub
	tickets    *ticketStore
	cancel     context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Identities == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if deps.Reports == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if deps.Intake == nil {
		return nil, fmt.Errorf("report intake is required")
	}
	if deps.Signals == nil {
		return nil, fmt.Errorf("signal controller is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}

	return &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WS,
		logger:     deps.Logger,
		identities: deps.Identities,
		reports:    deps.Reports,
		intake:     deps.Intake,
		signals:    deps.Signals,
		auth:       deps.Auth,
		db:         deps.DB,
		version:    deps.Version,
		tickets:    newTicketStore(),
	}, nil
}

// Hub returns the WebSocket hub, available after Start(). The intake uses
// it to broadcast ledger events.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub and ticket cleanup in the background, builds
// the router, and launches the HTTP listener in a goroutine. The server can
// be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)
	go s.cleanTicketsLoop(srvCtx)

	// Ledger events flow to connected dashboards from here on.
	s.intake.SetBroadcaster(s.hub)

	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits for in-flight requests to complete, including any submission
// blocked on the device hold sequence, then forcefully closes remaining
// connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
