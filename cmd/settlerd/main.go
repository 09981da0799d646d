// settlerd is the bet settlement daemon. It accepts bet slips over
// HTTP, polls the fixture feed for finished matches, and settles
// pending bets against their final results.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oddsforge/sportsbook/pkg/config"
	"github.com/oddsforge/sportsbook/pkg/settler"
	"github.com/oddsforge/sportsbook/pkg/settler/metrics"
	"github.com/oddsforge/sportsbook/pkg/settler/streaming"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/bet"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/catalog"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/fixture"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/policy"
	"github.com/oddsforge/sportsbook/pkg/store"
)

var (
	// Flags
	configPath = flag.String("config", "config.yaml", "Path to YAML config file")
	httpAddr   = flag.String("http", "", "HTTP server address (overrides config)")
	runOnce    = flag.Bool("once", false, "Run a single settlement pass and exit")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("Starting bet settlement daemon")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *httpAddr != "" {
		cfg.Server.Addr = *httpAddr
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	d, err := newDaemon(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize daemon: %v", err)
	}

	if *runOnce {
		if err := d.settler.RunOnce(ctx); err != nil {
			log.Fatalf("Settlement pass failed: %v", err)
		}
		return
	}

	go d.hub.Run(ctx)
	go d.startHTTP(cfg.Server.Addr)

	if err := d.settler.Start(ctx); err != nil {
		log.Fatalf("Failed to start settler: %v", err)
	}

	log.Printf("Daemon running (http=%s, poll=%s)", cfg.Server.Addr, cfg.Settler.PollInterval)
	log.Printf("WebSocket streaming available at ws://%s/ws", cfg.Server.Addr)
	log.Println("Press Ctrl+C to stop")

	<-sigCh
	log.Println("Shutting down...")

	if err := d.settler.Stop(); err != nil {
		log.Printf("Settler shutdown error: %v", err)
	}
	cancel()
}

// daemon wires the settlement components together.
type daemon struct {
	store   *store.Store
	feed    *fixture.Client
	settler *settler.Settler
	hub     *streaming.Hub
	metrics *metrics.SettlementMetrics
	policy  *policy.Engine
}

func newDaemon(cfg *config.Config) (*daemon, error) {
	db, err := store.Open(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	betStore := store.NewStore(db)

	feedOpts := []fixture.ClientOption{
		fixture.WithAPIKey(cfg.Feed.APIKey),
		fixture.WithRateLimit(cfg.Feed.RatePerSecond, cfg.Feed.RateBurst),
	}
	if cfg.Feed.BaseURL != "" {
		feedOpts = append(feedOpts, fixture.WithBaseURL(cfg.Feed.BaseURL))
	}
	feed := fixture.NewClient(feedOpts...)

	hub := streaming.NewHub()
	sm := metrics.NewSettlementMetrics()
	limits := policy.NewEngine(nil)

	s := settler.New(&settler.Config{
		PollInterval:     cfg.Settler.PollInterval,
		FetchConcurrency: cfg.Settler.FetchConcurrency,
	}, betStore, feed, hub, sm)
	s.OnFixtureSettled(limits.ReleaseFixture)

	return &daemon{
		store:   betStore,
		feed:    feed,
		settler: s,
		hub:     hub,
		metrics: sm,
		policy:  limits,
	}, nil
}

func (d *daemon) startHTTP(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Bet placement
	mux.HandleFunc("/bets", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			d.handlePlaceBet(w, r)
		case http.MethodGet:
			d.handleListPending(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Status endpoint
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		pending, err := d.store.ListPending()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"pending_bets": len(pending),
			"ws_clients":   d.hub.ClientCount(),
		})
	})

	// Acceptance policy endpoint
	mux.HandleFunc("/policy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d.policy.Status())
	})

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.HandlerFor(d.metrics.Registry(), promhttp.HandlerOpts{}))

	// WebSocket streaming endpoint
	mux.HandleFunc("/ws", d.hub.ServeWS)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("HTTP server listening on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("HTTP server error: %v", err)
	}
}

// handlePlaceBet accepts a bet slip, expands it into wagered lines, and
// persists each line as a pending bet.
func (d *daemon) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var slip bet.Slip
	if err := json.NewDecoder(r.Body).Decode(&slip); err != nil {
		http.Error(w, "invalid slip: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := slip.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Refuse markets the resolver cannot settle
	for _, sel := range slip.Selections {
		if err := catalog.Check(sel.MarketName); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	lines, err := bet.Expand(slip)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, bet.ErrNoValidSlip) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	if err := d.policy.CheckSlip(slip, lines); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	bets, err := d.store.CreateBets(slip.Mode, lines)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	d.policy.RecordAccepted(slip, lines)
	for _, b := range bets {
		d.metrics.RecordBetPlaced(string(slip.Mode))
		d.hub.BroadcastBetPlaced(b.ID, b.Mode, b.Stake)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"mode":             slip.Mode,
		"lines":            len(bets),
		"total_stake":      slip.Stake,
		"potential_payout": bet.TotalPotentialPayout(lines),
		"bets":             bets,
	})
}

func (d *daemon) handleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := d.store.ListPending()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pending)
}
