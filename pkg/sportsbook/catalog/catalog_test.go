package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck(t *testing.T) {
	if err := Check("Match Winner"); err != nil {
		t.Errorf("Check(Match Winner) = %v, want nil", err)
	}

	err := Check("Player To Be Booked")
	if err == nil {
		t.Fatal("Check accepted a market with no settlement handler")
	}
	var unsupported *ErrUnsupportedMarket
	if !errors.As(err, &unsupported) {
		t.Errorf("err = %T, want *ErrUnsupportedMarket", err)
	}
	if unsupported.Name != "Player To Be Booked" {
		t.Errorf("err.Name = %q", unsupported.Name)
	}
}

func TestListMarkets(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/odds/bets" {
			t.Errorf("Expected path /odds/bets, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": [
			{"id": 1, "name": "Match Winner"},
			{"id": 5, "name": "Goals Over/Under"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	markets, err := client.ListMarkets(context.Background())
	if err != nil {
		t.Fatalf("ListMarkets failed: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("markets = %d, want 2", len(markets))
	}

	if name, ok := client.MarketName(5); !ok || name != "Goals Over/Under" {
		t.Errorf("MarketName(5) = %q, %v", name, ok)
	}

	// Cached on the second call.
	if _, err := client.ListMarkets(context.Background()); err != nil {
		t.Fatalf("second ListMarkets failed: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1", requests)
	}
}
