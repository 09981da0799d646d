// Package settler drives periodic settlement of pending bets against
// finished fixtures.
package settler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/oddsforge/sportsbook/pkg/settler/metrics"
	"github.com/oddsforge/sportsbook/pkg/settler/streaming"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/bet"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/fixture"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
	"github.com/oddsforge/sportsbook/pkg/store"
)

// BetStore is the persistence surface the settler needs.
type BetStore interface {
	ListPending() ([]store.Bet, error)
	MarkSettled(betID string, outcome bet.Outcome) error
}

// FixtureFeed fetches fixture contexts from the results provider.
type FixtureFeed interface {
	FetchContext(ctx context.Context, fixtureID int, withEvents, withStats bool) (*fixture.Context, error)
}

// Config configures the settlement loop.
type Config struct {
	PollInterval     time.Duration
	FetchConcurrency int
}

// DefaultConfig returns default settlement loop configuration.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:     2 * time.Minute,
		FetchConcurrency: 4,
	}
}

// Settler coordinates the settlement workflow: list pending bets, fetch
// the fixture contexts they reference, resolve and persist outcomes.
type Settler struct {
	config  *Config
	store   BetStore
	feed    FixtureFeed
	hub     *streaming.Hub
	metrics *metrics.SettlementMetrics

	mu        sync.Mutex
	scheduler gocron.Scheduler

	onFixtureSettled func(fixtureID int)
}

// fixtureNeed records which enrichments the markets on a fixture require.
type fixtureNeed struct {
	events bool
	stats  bool
}

// New creates a settler.
func New(config *Config, betStore BetStore, feed FixtureFeed, hub *streaming.Hub, sm *metrics.SettlementMetrics) *Settler {
	if config == nil {
		config = DefaultConfig()
	}
	if config.FetchConcurrency < 1 {
		config.FetchConcurrency = 1
	}
	return &Settler{
		config:  config,
		store:   betStore,
		feed:    feed,
		hub:     hub,
		metrics: sm,
	}
}

// OnFixtureSettled sets a callback invoked for each fixture referenced
// by a bet that reached a terminal outcome.
func (s *Settler) OnFixtureSettled(fn func(fixtureID int)) {
	s.onFixtureSettled = fn
}

// Start schedules the settlement loop. It runs one pass immediately and
// then every PollInterval until Stop is called.
func (s *Settler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		return fmt.Errorf("settler already running")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.config.PollInterval),
		gocron.NewTask(func() {
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("[SETTLER] Run failed: %v", err)
				if s.hub != nil {
					s.hub.BroadcastError(err.Error())
				}
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule settlement job: %w", err)
	}

	sched.Start()
	s.scheduler = sched
	return nil
}

// Stop halts the settlement loop and waits for a running pass to finish.
func (s *Settler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}

// RunOnce executes a single settlement pass.
func (s *Settler) RunOnce(ctx context.Context) error {
	start := time.Now()

	bets, err := s.store.ListPending()
	if err != nil {
		s.recordRun("error", start)
		return fmt.Errorf("list pending bets: %w", err)
	}
	if s.metrics != nil {
		s.metrics.UpdatePending(len(bets))
	}
	if len(bets) == 0 {
		s.recordRun("empty", start)
		return nil
	}

	contexts := s.fetchContexts(ctx, bets)

	summary := streaming.RunSummary{Checked: len(bets)}
	for i := range bets {
		record := &bets[i]
		outcome := bet.Settle(record.ToSelections(), contexts, record.Stake)
		s.recordLegs(outcome.Legs)

		if !outcome.Outcome.Terminal() {
			summary.Unresolved++
			continue
		}

		if err := s.store.MarkSettled(record.ID, outcome); err != nil {
			log.Printf("[SETTLER] Failed to persist bet %s: %v", record.ID, err)
			summary.Failed++
			continue
		}
		summary.Settled++

		if s.metrics != nil {
			s.metrics.RecordBetSettled(record.Mode, string(outcome.Outcome), outcome.Payout)
		}
		if s.hub != nil {
			s.hub.BroadcastSettlement(settlementUpdate(record.ID, outcome))
		}
		if s.onFixtureSettled != nil {
			seen := make(map[int]bool)
			for _, sel := range record.Selections {
				if !seen[sel.FixtureID] {
					seen[sel.FixtureID] = true
					s.onFixtureSettled(sel.FixtureID)
				}
			}
		}
	}

	log.Printf("[SETTLER] Pass done: %d checked, %d settled, %d unresolved, %d failed (%.1fs)",
		summary.Checked, summary.Settled, summary.Unresolved, summary.Failed,
		time.Since(start).Seconds())

	if s.hub != nil {
		s.hub.BroadcastRunDone(summary)
	}
	s.recordRun("success", start)
	return nil
}

// fetchContexts fans out fixture fetches for every fixture the pending
// bets reference. A failed fetch leaves the fixture absent from the map,
// which resolves its selections as unresolved until the next pass.
func (s *Settler) fetchContexts(ctx context.Context, bets []store.Bet) map[int]*fixture.Context {
	needs := make(map[int]fixtureNeed)
	for _, b := range bets {
		for _, sel := range b.Selections {
			need := needs[sel.FixtureID]
			need.events = need.events || market.NeedsEvents(sel.MarketName)
			need.stats = need.stats || market.NeedsStatistics(sel.MarketName)
			needs[sel.FixtureID] = need
		}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		contexts = make(map[int]*fixture.Context, len(needs))
		sem      = make(chan struct{}, s.config.FetchConcurrency)
	)

	for fixtureID, need := range needs {
		wg.Add(1)
		go func(id int, need fixtureNeed) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fetchStart := time.Now()
			fc, err := s.feed.FetchContext(ctx, id, need.events, need.stats)
			if s.metrics != nil {
				status := "ok"
				if err != nil {
					status = "error"
				}
				s.metrics.RecordProviderRequest("fixtures", status, time.Since(fetchStart).Seconds())
			}
			if err != nil {
				log.Printf("[SETTLER] Fetch fixture %d failed: %v", id, err)
				return
			}

			mu.Lock()
			contexts[id] = fc
			mu.Unlock()
		}(fixtureID, need)
	}

	wg.Wait()
	return contexts
}

func (s *Settler) recordLegs(legs []bet.LegResult) {
	if s.metrics == nil {
		return
	}
	for _, leg := range legs {
		family := market.Classify(leg.Selection.MarketName)
		s.metrics.RecordSelection(string(family), string(leg.Result.Outcome), leg.Result.Reason)
	}
}

func (s *Settler) recordRun(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRun(status, time.Since(start).Seconds())
	}
}

func settlementUpdate(betID string, outcome bet.Outcome) streaming.SettlementUpdate {
	update := streaming.SettlementUpdate{
		BetID:   betID,
		Outcome: string(outcome.Outcome),
		Payout:  outcome.Payout,
	}
	for _, leg := range outcome.Legs {
		update.Legs = append(update.Legs, streaming.LegUpdate{
			FixtureID:  leg.Selection.FixtureID,
			MarketName: leg.Selection.MarketName,
			Value:      leg.Selection.Value,
			Outcome:    string(leg.Result.Outcome),
			Reason:     leg.Result.Reason,
		})
	}
	return update
}
