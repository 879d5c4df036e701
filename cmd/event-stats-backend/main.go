package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cfgpkg "onemrc.dev/event-stats-backend/internal/config"
	"onemrc.dev/event-stats-backend/internal/httpapi"
	otelsetup "onemrc.dev/event-stats-backend/internal/otel"
	"onemrc.dev/event-stats-backend/internal/service"
	"onemrc.dev/event-stats-backend/internal/sink"
)

const name = "onemrc.dev/event-stats-backend"

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() (err error) {
	// Instance logger bridged to OTel.
	logger := otelslog.NewLogger(name)
	slog.SetDefault(logger)
	logger.Info("Starting application")

	// Set up OpenTelemetry.
	otelShutdown, err := otelsetup.Setup(context.Background())
	if err != nil {
		return
	}

	defer func() { err = errors.Join(err, otelShutdown(context.Background())) }()

	// Config
	readFlags := cfgpkg.RegisterFlags()

	flag.Parse()

	cfg := readFlags()

	slog.Debug("Starting listener", slog.String("listenAddr", cfg.ListenAddr))

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}

	// Optional output file for the report sink
	var outFile *os.File
	if cfg.OutputFile != "" {
		f, openErr := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr != nil {
			return openErr
		}

		outFile = f
	}

	var opts []service.Option
	if outFile != nil {
		opts = append(opts, service.WithSink(sink.NewJSONSink(outFile)))
	}

	svc, err := service.New(cfg, logger, opts...)
	if err != nil {
		return err
	}
	// Derive a context canceled on SIGINT/SIGTERM for graceful shutdown
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start internal components; they will stop when sigCtx is canceled
	svc.Start(sigCtx)

	srv := &http.Server{
		Handler:        otelhttp.NewHandler(httpapi.NewServer(svc).Handler(), "event-stats-backend"),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	slog.Debug("Starting HTTP server")

	// Serve in a goroutine so we can handle signals
	serveErr := make(chan error, 1)

	go func() { serveErr <- srv.Serve(listener) }()

	select {
	case err := <-serveErr:
		return err
	case <-sigCtx.Done():
		// Begin graceful shutdown
		slog.Info("Shutdown signal received; beginning graceful shutdown")

		// Stop accepting new connections and allow in-flight requests to
		// complete, bounded by the configured timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
		defer cancel()

		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			slog.Warn("Graceful stop timed out; forcing stop", slog.String("err", serr.Error()))

			if cerr := srv.Close(); cerr != nil {
				return cerr
			}
		}

		// Cancel internal components and wait for the final report flush
		if err := svc.Close(shutdownCtx); err != nil {
			return err
		}
		// Close the output file if used
		if outFile != nil {
			if cerr := outFile.Close(); cerr != nil {
				return cerr
			}
		}

		return nil
	}
}
