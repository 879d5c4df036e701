package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterFlags_Defaults(t *testing.T) {
	// Use a fresh FlagSet to avoid interfering with global flags in other tests.
	orig := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet("test", flag.ContinueOnError)
	t.Cleanup(func() { flag.CommandLine = orig })

	read := RegisterFlags()
	// Parse no args -> defaults
	_ = flag.CommandLine.Parse([]string{})
	cfg := read()

	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, 10*time.Second, cfg.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.WriteTimeout)
	require.Zero(t, cfg.Stripes)
	require.False(t, cfg.EnableReset)
	require.Greater(t, cfg.ReportInterval, time.Duration(0))
	require.Empty(t, cfg.OutputFile)
}

func TestRegisterFlags_Overrides(t *testing.T) {
	orig := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet("test", flag.ContinueOnError)
	t.Cleanup(func() { flag.CommandLine = orig })

	read := RegisterFlags()
	args := []string{
		"-listenAddr", "0.0.0.0:5000",
		"-readTimeout", "5s",
		"-writeTimeout", "6s",
		"-stripes", "64",
		"-enableReset",
		"-reportInterval", "250ms",
		"-outputFile", "/tmp/reports.jsonl",
		"-logLevel", "debug",
		"-gracefulTimeout", "2s",
	}
	require.NoError(t, flag.CommandLine.Parse(args))

	cfg := read()
	require.Equal(t, "0.0.0.0:5000", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.ReadTimeout)
	require.Equal(t, 6*time.Second, cfg.WriteTimeout)
	require.Equal(t, 64, cfg.Stripes)
	require.True(t, cfg.EnableReset)
	require.Equal(t, 250*time.Millisecond, cfg.ReportInterval)
	require.Equal(t, "/tmp/reports.jsonl", cfg.OutputFile)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 2*time.Second, cfg.GracefulTimeout)
}
