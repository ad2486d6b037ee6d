package server

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bjarke-xyz/startup-dashboard/internal/dashboard"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
	"github.com/bjarke-xyz/startup-dashboard/internal/server/html"
	"github.com/bjarke-xyz/startup-dashboard/internal/service"
)

//go:embed static
var staticFiles embed.FS

// Options are the server's collaborators. Verifier and AuthClient are both
// nil when dashboard login is disabled.
type Options struct {
	Startups   *service.StartupService
	Funding    format.FundingFormatter
	Dates      format.Dates
	Verifier   IDTokenVerifier
	AuthClient AuthRestClient
	// ApiKeyHash is a bcrypt hash; empty leaves /api open.
	ApiKeyHash string
}

type server struct {
	logger *slog.Logger

	verifier   IDTokenVerifier
	authClient AuthRestClient
	apiKeyHash string

	startups *service.StartupService
	board    *dashboard.Board
	broker   *WsBroker

	funding format.FundingFormatter
	dates   format.Dates

	staticFilesFs fs.FS
}

// NewServer wires the dashboard. The websocket broker runs until ctx is done.
func NewServer(ctx context.Context, logger *slog.Logger, opts Options) (*server, error) {
	staticFilesFs, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	if opts.Startups == nil || opts.Funding == nil {
		return nil, fmt.Errorf("startup service and funding formatter are required")
	}
	board := dashboard.NewBoard(opts.Startups, logger.With(slog.String("component", "board")))
	broker := NewWsBroker(logger.With(slog.String("component", "ws")))
	board.OnChange(broker.NotifyBoard)
	go broker.Listen(ctx)

	return &server{
		logger:        logger,
		verifier:      opts.Verifier,
		authClient:    opts.AuthClient,
		apiKeyHash:    opts.ApiKeyHash,
		startups:      opts.Startups,
		board:         board,
		broker:        broker,
		funding:       opts.Funding,
		dates:         opts.Dates,
		staticFilesFs: staticFilesFs,
	}, nil
}

func (s *server) Server(port int) *http.Server {
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.routes(),
	}
}

func (s *server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.staticFilesFs))))
	r.Get("/up", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "up!")
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
	})

	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		if !s.authEnabled() {
			http.Redirect(w, r, "/dashboard/", http.StatusSeeOther)
			return
		}
		err := r.URL.Query().Get("error")
		html.LoginPage(w, html.LoginParams{Title: "Login", Error: err})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(s.apiKeyVerifier)
		r.Get("/startup", s.handleApiStartups)
		r.Get("/startup/{id}", s.handleApiStartup)
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(s.firebaseJwtVerifier)
		r.Get("/", s.handleGetDashboard)
		r.Post("/refresh", s.handlePostRefresh)
		r.Post("/search", s.handlePostSearch)
		r.Get("/startup/{id}", s.handleGetStartup)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/ws", s.handleDashboardWs)
	})
	return r
}
