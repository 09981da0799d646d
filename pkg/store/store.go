// Package store persists wagered bet lines and their settlement
// decisions in Postgres.
package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/oddsforge/sportsbook/pkg/sportsbook/bet"
	"github.com/oddsforge/sportsbook/pkg/sportsbook/market"
)

// Open connects to Postgres and migrates the bet schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.AutoMigrate(&Bet{}, &Selection{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

// Store wraps bet persistence.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateBets persists the expanded lines of one slip, one bet row per
// wagered line.
func (s *Store) CreateBets(mode bet.Mode, lines []bet.Line) ([]Bet, error) {
	bets := make([]Bet, 0, len(lines))
	for _, line := range lines {
		record := Bet{
			ID:              uuid.New().String(),
			Mode:            string(mode),
			Stake:           line.Stake,
			PotentialPayout: line.PotentialPayout,
			Status:          "pending",
		}
		for _, sel := range line.Selections {
			record.Selections = append(record.Selections, Selection{
				BetID:       record.ID,
				FixtureID:   sel.FixtureID,
				MarketBetID: sel.MarketBetID,
				MarketName:  sel.MarketName,
				Value:       sel.Value,
				Handicap:    sel.Handicap,
				Odd:         sel.Odd,
			})
		}
		bets = append(bets, record)
	}

	if err := s.DB.Create(&bets).Error; err != nil {
		return nil, fmt.Errorf("create bets: %w", err)
	}
	return bets, nil
}

// ListPending returns every bet still awaiting settlement.
func (s *Store) ListPending() ([]Bet, error) {
	var bets []Bet
	err := s.DB.Preload("Selections").
		Where("status = ?", "pending").
		Order("created_at").
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("list pending bets: %w", err)
	}
	return bets, nil
}

// MarkSettled records a terminal settlement decision. The status guard
// in the update makes the pending → terminal transition happen exactly
// once even if two settlement runs race.
func (s *Store) MarkSettled(betID string, outcome bet.Outcome) error {
	if !outcome.Outcome.Terminal() {
		return fmt.Errorf("bet %s: refusing to persist non-terminal outcome %s", betID, outcome.Outcome)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&Bet{}).
			Where("id = ? AND status = ?", betID, "pending").
			Updates(map[string]any{
				"status":     string(outcome.Outcome),
				"payout":     outcome.Payout,
				"settled_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("settle bet %s: %w", betID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Already settled by a concurrent run; nothing to do.
			return nil
		}

		for _, leg := range outcome.Legs {
			err := tx.Model(&Selection{}).
				Where("bet_id = ? AND fixture_id = ? AND value = ?", betID, leg.Selection.FixtureID, leg.Selection.Value).
				Updates(map[string]any{
					"outcome": string(leg.Result.Outcome),
					"reason":  leg.Result.Reason,
				}).Error
			if err != nil {
				return fmt.Errorf("settle selections of bet %s: %w", betID, err)
			}
		}
		return nil
	})
}

// ToSelections converts persisted selection rows back into resolver
// selections.
func (b *Bet) ToSelections() []market.Selection {
	selections := make([]market.Selection, 0, len(b.Selections))
	for _, row := range b.Selections {
		selections = append(selections, market.Selection{
			FixtureID:   row.FixtureID,
			MarketBetID: row.MarketBetID,
			MarketName:  row.MarketName,
			Value:       row.Value,
			Handicap:    row.Handicap,
			Odd:         row.Odd,
		})
	}
	return selections
}
