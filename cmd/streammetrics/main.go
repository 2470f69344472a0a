// Command streammetrics runs one streaming session alongside a small HTTP
// server exposing Prometheus metrics and a session-listing debug endpoint,
// mirroring the teacher's gin + rs/cors + promhttp debug surface.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/eternisai/socialstream/internal/config"
	"github.com/eternisai/socialstream/internal/dispatch"
	applog "github.com/eternisai/socialstream/internal/logger"
	"github.com/eternisai/socialstream/internal/metrics"
	"github.com/eternisai/socialstream/internal/session"
	"github.com/eternisai/socialstream/internal/transport"
)

func main() {
	var (
		user     = flag.String("user", os.Getenv("STREAM_USER"), "Basic auth username")
		password = flag.String("password", os.Getenv("STREAM_PASSWORD"), "Basic auth password")
		method   = flag.String("method", session.MethodSample, "filter|firehose|links|retweet|sample")
	)
	flag.Parse()

	cfg := config.Load(".env")
	logger := applog.New(applog.FromConfig(cfg.LogLevel, cfg.LogFormat)).Logger

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	registry := session.NewRegistry(m, logger)
	defer registry.Shutdown()

	h := &countingHandler{metrics: m}
	sess := session.New(h, transport.Credentials{User: *user, Password: *password}, logger)
	if err := sess.Start(context.Background(), nil); err != nil {
		logger.Error("session init failed", "error", err)
		os.Exit(1)
	}
	registry.Put("main", sess)
	sess.SwitchMethod(*method, nil)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/sessions", func(c *gin.Context) { c.JSON(http.StatusOK, registry.Names()) })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler := cors.Default().Handler(router)

	addr := ":" + cfg.DebugPort
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("debug server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("debug server stopped", "error", err)
	}
}

// countingHandler dispatches into the Prometheus registry so /metrics
// reflects live record counts.
type countingHandler struct {
	metrics *metrics.Registry
}

func (h *countingHandler) Init(ctx context.Context, args interface{}) dispatch.Init {
	return dispatch.InitContinue(nil)
}

func (h *countingHandler) HandleStatus(ctx context.Context, record interface{}, state interface{}) dispatch.Outcome {
	h.metrics.RecordsDispatched.WithLabelValues("status").Inc()
	return dispatch.Continue(state)
}

func (h *countingHandler) HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) dispatch.Outcome {
	h.metrics.RecordsDispatched.WithLabelValues("event").Inc()
	return dispatch.Continue(state)
}

func (h *countingHandler) HandleCall(ctx context.Context, request interface{}, state interface{}) dispatch.CallOutcome {
	return dispatch.CallOK(nil, state)
}

func (h *countingHandler) HandleInfo(ctx context.Context, message interface{}, state interface{}) dispatch.Outcome {
	return dispatch.Continue(state)
}

func (h *countingHandler) Terminate(ctx context.Context, reason interface{}, state interface{}) {}
