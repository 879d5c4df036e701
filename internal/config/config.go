package config

import (
	"flag"
	"time"
)

// Config holds instance-level configuration for the service.
type Config struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Stripes         int
	EnableReset     bool
	ReportInterval  time.Duration
	OutputFile      string
	LogLevel        string
	GracefulTimeout time.Duration
}

// RegisterFlags registers CLI flags and returns a reader that captures them after flag.Parse().
func RegisterFlags() func() Config {
	listenAddr := flag.String("listenAddr", ":8080", "The listen address")
	readTimeout := flag.Duration("readTimeout", 10*time.Second, "HTTP server read timeout")
	writeTimeout := flag.Duration("writeTimeout", 10*time.Second, "HTTP server write timeout")

	stripes := flag.Int("stripes", 0, "Stripe count for the aggregation engine (0 = sized to available parallelism)")
	enableReset := flag.Bool("enableReset", false, "Expose the administrative POST /reset endpoint")
	reportInterval := flag.Duration("reportInterval", 10*time.Second, "Interval between snapshot reports (0 disables reporting)")
	outputFile := flag.String("outputFile", "", "File to append snapshot reports to (empty = stdout)")
	logLevel := flag.String("logLevel", "info", "Log level: debug|info|warn|error")
	graceful := flag.Duration("gracefulTimeout", 10*time.Second, "Graceful shutdown timeout")

	return func() Config {
		return Config{
			ListenAddr:      *listenAddr,
			ReadTimeout:     *readTimeout,
			WriteTimeout:    *writeTimeout,
			Stripes:         *stripes,
			EnableReset:     *enableReset,
			ReportInterval:  *reportInterval,
			OutputFile:      *outputFile,
			LogLevel:        *logLevel,
			GracefulTimeout: *graceful,
		}
	}
}
