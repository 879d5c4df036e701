// loadgen drives an event-stats-backend instance with concurrent event
// submissions and then checks the served statistics against what it sent.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Event is the payload posted to /event.
type Event struct {
	UserID string  `json:"userId"`
	Value  float64 `json:"value"`
}

// Stats mirrors the /stats response.
type Stats struct {
	TotalRequests uint64  `json:"totalRequests"`
	UniqueUsers   uint64  `json:"uniqueUsers"`
	Sum           float64 `json:"sum"`
	Avg           float64 `json:"avg"`
}

type config struct {
	targetURL string
	total     int
	workers   int
	userPool  int
	timeout   time.Duration
	validate  bool
}

func main() {
	if err := run(); err != nil {
		log.Fatalln(err)
	}
}

func run() error {
	cfg := parseFlags()

	client := &http.Client{
		Timeout: cfg.timeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.workers,
			MaxIdleConnsPerHost: cfg.workers,
		},
	}

	if err := healthCheck(client, cfg.targetURL); err != nil {
		return err
	}

	// Namespace this run's user ids so repeated runs against a live server
	// stay distinguishable in the unique-user count.
	runID := uuid.NewString()[:8]

	before, err := fetchStats(client, cfg.targetURL)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: sending %d events from %d workers over %d users\n",
		runID, cfg.total, cfg.workers, cfg.userPool)

	var sent, failed atomic.Int64

	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	perWorker := cfg.total / cfg.workers

	for w := 0; w < cfg.workers; w++ {
		g.Go(func() error {
			base := w * perWorker

			for j := 0; j < perWorker; j++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				i := base + j
				ev := Event{
					UserID: fmt.Sprintf("%s_user_%d", runID, i%cfg.userPool),
					Value:  float64(i % 1000),
				}

				if err := postEvent(client, cfg.targetURL, ev); err != nil {
					failed.Add(1)
					continue
				}

				sent.Add(1)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("done: %d ok, %d failed in %s (%.0f req/s)\n",
		sent.Load(), failed.Load(), elapsed.Round(time.Millisecond),
		float64(sent.Load())/elapsed.Seconds())

	if !cfg.validate {
		return nil
	}

	after, err := fetchStats(client, cfg.targetURL)
	if err != nil {
		return err
	}

	return validate(cfg, sent.Load(), before, after)
}

func parseFlags() config {
	var cfg config

	flag.StringVar(&cfg.targetURL, "url", "http://localhost:8080", "Target server URL")
	flag.IntVar(&cfg.total, "n", 1_000_000, "Total number of events to send")
	flag.IntVar(&cfg.workers, "workers", 500, "Number of concurrent workers")
	flag.IntVar(&cfg.userPool, "users", 75_000, "User pool size for unique users")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "HTTP request timeout")
	flag.BoolVar(&cfg.validate, "validate", true, "Validate server stats after the run")
	flag.Parse()

	return cfg
}

func healthCheck(client *http.Client, url string) error {
	resp, err := client.Get(url + "/health")
	if err != nil {
		return fmt.Errorf("server not responding at %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", resp.StatusCode)
	}

	return nil
}

func postEvent(client *http.Client, url string, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	resp, err := client.Post(url+"/event", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}

func fetchStats(client *http.Client, url string) (Stats, error) {
	var s Stats

	resp, err := client.Get(url + "/stats")
	if err != nil {
		return s, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return s, err
	}

	return s, nil
}

// validate compares the before/after deltas with what this run sent. It
// compares deltas rather than absolutes so a warm server with prior
// traffic still validates cleanly.
func validate(cfg config, sent int64, before, after Stats) error {
	sentPerWorker := cfg.total / cfg.workers
	attempted := sentPerWorker * cfg.workers

	wantUsers := attempted
	if cfg.userPool < wantUsers {
		wantUsers = cfg.userPool
	}

	var wantSum float64
	for w := 0; w < cfg.workers; w++ {
		for j := 0; j < sentPerWorker; j++ {
			wantSum += float64((w*sentPerWorker + j) % 1000)
		}
	}

	failures := 0

	check := func(name string, got, want float64) {
		if got != want {
			failures++
			fmt.Printf("MISMATCH %s: got %v, want %v\n", name, got, want)
			return
		}
		fmt.Printf("ok %s: %v\n", name, got)
	}

	check("totalRequests", float64(after.TotalRequests-before.TotalRequests), float64(sent))
	check("uniqueUsers", float64(after.UniqueUsers-before.UniqueUsers), float64(wantUsers))
	check("sum", after.Sum-before.Sum, wantSum)

	if failures > 0 {
		return fmt.Errorf("validation failed: %d mismatched fields", failures)
	}

	fmt.Println("validation passed")

	return nil
}
