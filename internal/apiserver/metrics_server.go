package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tenderdesk/rfp-analyzer/internal/config"
	"github.com/tenderdesk/rfp-analyzer/pkg/metrics"
)

type MetricServer struct {
	cfg      *config.Config
	listener net.Listener
}

func NewMetricServer(cfg *config.Config, listener net.Listener) *MetricServer {
	return &MetricServer{
		cfg:      cfg,
		listener: listener,
	}
}

func (m *MetricServer) Run(ctx context.Context) error {
	router := chi.NewRouter()
	handler := metrics.NewPrometheusMetricsHandler()
	router.Handle("/metrics", handler.Handler())

	srv := http.Server{
		Addr:    m.cfg.Service.MetricsAddress,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("metrics_server").Info("metrics server terminated")
	}()

	zap.S().Named("metrics_server").Infof("serving metrics: %s", m.cfg.Service.MetricsAddress)
	if err := srv.Serve(m.listener); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
