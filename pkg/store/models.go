package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet is one persisted wagered line. Selections are immutable after
// placement; settlement only fills in the decision columns.
type Bet struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Mode string `gorm:"type:varchar(16);not null" json:"mode"`

	Stake           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"stake"`
	PotentialPayout decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"potential_payout"`

	// Status transitions exactly once from pending to a terminal state.
	Status    string           `gorm:"type:varchar(16);index;default:pending;check:status IN ('pending','won','lost','void')" json:"status"`
	Payout    *decimal.Decimal `gorm:"type:numeric(14,2)" json:"payout,omitempty"`
	SettledAt *time.Time       `json:"settled_at,omitempty"`

	Selections []Selection `gorm:"foreignKey:BetID" json:"selections"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Selection is one persisted leg of a bet.
type Selection struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	BetID string `gorm:"index;type:uuid;not null" json:"bet_id"`

	FixtureID   int             `gorm:"index;not null" json:"fixture_id"`
	MarketBetID int             `json:"market_bet_id,omitempty"`
	MarketName  string          `json:"market_name,omitempty"`
	Value       string          `gorm:"not null" json:"value"`
	Handicap    string          `json:"handicap,omitempty"`
	Odd         decimal.Decimal `gorm:"type:numeric(8,3);not null" json:"odd"`

	// Settlement decision, filled when the bet reaches a terminal state.
	Outcome string `gorm:"type:varchar(16)" json:"outcome,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
