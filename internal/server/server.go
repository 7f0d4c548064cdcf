// Package server exposes the storefront HTTP API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"loja-backend/internal/logger"
	"loja-backend/internal/metrics"
	"loja-backend/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

const (
	webhookPath     = "/webhook_mp"
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Catalog is the read side of the product spreadsheet.
type Catalog interface {
	List(ctx context.Context) ([]model.Product, error)
	Find(ctx context.Context, id string) (*model.Product, error)
}

// PreferenceCreator opens checkouts with the payment provider.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, req model.PreferenceRequest) (*model.Preference, error)
}

// PaymentNotifier receives accepted payment webhooks. This is where payment
// lookup and order bookkeeping plug in; errors are logged, never returned to
// the provider.
type PaymentNotifier interface {
	Notify(ctx context.Context, n model.PaymentNotification) error
}

type Options struct {
	Catalog       Catalog
	Payments      PreferenceCreator
	Notifier      PaymentNotifier // optional
	WebhookSecret string
	CORSOrigins   []string
	Version       string
	Logger        logger.Logger
}

type Server struct {
	catalog       Catalog
	payments      PreferenceCreator
	notifier      PaymentNotifier
	webhookSecret string
	version       string
	logger        logger.Logger
	handler       http.Handler
	now           func() time.Time
}

func New(opts Options) *Server {
	s := &Server{
		catalog:       opts.Catalog,
		payments:      opts.Payments,
		notifier:      opts.Notifier,
		webhookSecret: opts.WebhookSecret,
		version:       opts.Version,
		logger:        opts.Logger,
		now:           time.Now,
	}
	s.handler = s.routes(opts.CORSOrigins)
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(corsOrigins []string) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/produtos", s.handleListProducts).Methods(http.MethodGet)
	router.HandleFunc("/produtos/{id}", s.handleGetProduct).Methods(http.MethodGet)
	router.HandleFunc("/create_preference", s.handleCreatePreference).Methods(http.MethodPost)
	router.HandleFunc(webhookPath, s.handleWebhook).Methods(http.MethodPost)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	handler := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	// Wrapped outside the router so unmatched requests and preflights are
	// logged and counted too.
	return s.logRequests(recordMetrics(router, handler))
}

// Run listens on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Infof("Listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Infof("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
