package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/tenderdesk/rfp-analyzer/internal/analysis"
	"github.com/tenderdesk/rfp-analyzer/internal/auth"
	"github.com/tenderdesk/rfp-analyzer/internal/config"
	"github.com/tenderdesk/rfp-analyzer/internal/events"
	"github.com/tenderdesk/rfp-analyzer/internal/handlers"
	"github.com/tenderdesk/rfp-analyzer/internal/objstore"
	"github.com/tenderdesk/rfp-analyzer/internal/runner"
	"github.com/tenderdesk/rfp-analyzer/internal/service"
	"github.com/tenderdesk/rfp-analyzer/internal/store"
	"github.com/tenderdesk/rfp-analyzer/pkg/metrics"
	"github.com/tenderdesk/rfp-analyzer/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the tender analyzer API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	downloader, err := objstore.NewMinioDownloader(
		objstore.WithEndpoint(s.cfg.ObjStore.Endpoint),
		objstore.WithBucket(s.cfg.ObjStore.Bucket),
		objstore.WithAccessKey(s.cfg.ObjStore.AccessKey),
		objstore.WithSecretKey(s.cfg.ObjStore.SecretKey),
		objstore.WithSSL(s.cfg.ObjStore.UseSSL),
	)
	if err != nil {
		return fmt.Errorf("failed to create object store client: %w", err)
	}

	var analyzer analysis.Analyzer
	if s.cfg.Analyzer.APIKey != "" {
		analyzer, err = analysis.NewOpenAIAnalyzer(s.cfg.Analyzer.APIKey, s.cfg.Analyzer.Model)
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
	} else {
		zap.S().Named("api_server").Warn("no analyzer api key configured; using static analyzer")
		analyzer = &analysis.StaticAnalyzer{}
	}

	recorder := events.NewRecorder(events.NewStoreWriter(s.store))
	defer func() {
		_ = recorder.Close()
	}()

	jobRunner := runner.New(s.store, downloader, analyzer, recorder)

	jobService := service.NewJobService(s.store, jobRunner, recorder)
	workItemService := service.NewWorkItemService(s.store)
	exportService := service.NewExportService(s.store)

	handler := handlers.NewServiceHandler(jobService, workItemService, exportService)

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// user-facing routes
	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)
		handler.RegisterApi(r)
	})

	// privileged trigger, guarded by the shared scheduler token
	triggerAuth := auth.NewTriggerAuthenticator(s.cfg.Service.TriggerToken)
	router.Group(func(r chi.Router) {
		r.Use(triggerAuth.Authenticator)
		handler.RegisterTriggerApi(r)
	})

	httpServer := &http.Server{
		Addr:    s.cfg.Service.Address,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		httpServer.SetKeepAlivesEnabled(false)
		_ = httpServer.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("serving api: %s", s.cfg.Service.Address)
	if err := httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
