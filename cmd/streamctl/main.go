// Command streamctl is a small demo client: it opens one streaming method
// with the options given on the command line and prints every dispatched
// record to stdout as it arrives.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eternisai/socialstream/internal/config"
	applog "github.com/eternisai/socialstream/internal/logger"
	"github.com/eternisai/socialstream/pkg/stream"
)

func main() {
	var (
		method   = flag.String("method", "sample", "filter|firehose|links|retweet|sample")
		user     = flag.String("user", os.Getenv("STREAM_USER"), "Basic auth username")
		password = flag.String("password", os.Getenv("STREAM_PASSWORD"), "Basic auth password")
		track    = flag.String("track", "", "comma-separated track terms (filter only)")
		count    = flag.Int("count", 0, "count option (0 = omit)")
	)
	flag.Parse()

	cfg := config.Load(".env")
	logger := applog.New(applog.FromConfig(cfg.LogLevel, cfg.LogFormat)).Logger

	handler := &printHandler{log: logger}
	srv, err := stream.Start(context.Background(), handler, nil, stream.StartOptions{
		User:     *user,
		Password: *password,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to start session", "error", err)
		os.Exit(1)
	}

	var opts []stream.Option
	if *count != 0 {
		opts = append(opts, stream.Count(*count))
	}
	if strings.TrimSpace(*track) != "" {
		opts = append(opts, stream.Track(strings.Split(*track, ",")))
	}

	switch *method {
	case "filter":
		srv.Filter(opts...)
	case "firehose":
		srv.Firehose(opts...)
	case "links":
		srv.Links(opts...)
	case "retweet":
		srv.Retweet(opts...)
	default:
		srv.Sample(opts...)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
		srv.Stop("operator_requested")
	case <-srv.Done():
	}
	<-srv.Done()
}

// printHandler is the demo handler: it just prints every status and event
// record it receives and never stops the session on its own.
type printHandler struct {
	log *slog.Logger
}

func (h *printHandler) Init(ctx context.Context, args interface{}) stream.Init {
	return stream.InitContinue(0)
}

func (h *printHandler) HandleStatus(ctx context.Context, record interface{}, state interface{}) stream.Outcome {
	count := state.(int) + 1
	printJSON("status", record)
	return stream.Continue(count)
}

func (h *printHandler) HandleEvent(ctx context.Context, event string, data interface{}, state interface{}) stream.Outcome {
	printJSON("event:"+event, data)
	return stream.Continue(state)
}

func (h *printHandler) HandleCall(ctx context.Context, request interface{}, state interface{}) stream.CallOutcome {
	return stream.CallOK(state, state)
}

func (h *printHandler) HandleInfo(ctx context.Context, message interface{}, state interface{}) stream.Outcome {
	return stream.Continue(state)
}

func (h *printHandler) Terminate(ctx context.Context, reason interface{}, state interface{}) {
	h.log.Info("session terminated", "reason", reason, "status_count", state)
}

func printJSON(label string, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: <unmarshalable: %v>\n", label, err)
		return
	}
	fmt.Printf("%s %s\n", label, b)
}
