package fixture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const fixtureResponse = `{
	"response": [{
		"fixture": {"id": 1035000, "status": {"short": "FT"}},
		"teams": {"home": {"id": 10, "name": "Arsenal"}, "away": {"id": 20, "name": "Chelsea"}},
		"goals": {"home": 2, "away": 1},
		"score": {
			"halftime": {"home": 1, "away": 0},
			"fulltime": {"home": 2, "away": 1},
			"extratime": {"home": null, "away": null},
			"penalty": {"home": null, "away": null}
		}
	}]
}`

const eventsResponse = `{
	"response": [
		{"time": {"elapsed": 27, "extra": null}, "team": {"id": 10}, "player": {"name": "Saka"}, "type": "Goal", "detail": "Normal Goal"},
		{"time": {"elapsed": 45, "extra": 2}, "team": {"id": 20}, "player": {"name": "Palmer"}, "type": "Card", "detail": "Yellow Card"}
	]
}`

const statisticsResponse = `{
	"response": [
		{"team": {"id": 10}, "statistics": [
			{"type": "Corner Kicks", "value": 7},
			{"type": "Ball Possession", "value": "58%"}
		]},
		{"team": {"id": 20}, "statistics": [
			{"type": "Corner Kicks", "value": 3},
			{"type": "Ball Possession", "value": "42%"}
		]}
	]
}`

func feedServer(t *testing.T, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests++
		}
		if got := r.Header.Get("x-apisports-key"); got != "test-key" {
			t.Errorf("Expected api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/fixtures":
			if r.URL.Query().Get("id") != "1035000" {
				t.Errorf("Expected id=1035000, got %s", r.URL.Query().Get("id"))
			}
			w.Write([]byte(fixtureResponse))
		case "/fixtures/events":
			w.Write([]byte(eventsResponse))
		case "/fixtures/statistics":
			w.Write([]byte(statisticsResponse))
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
}

func TestFetchContext(t *testing.T) {
	server := feedServer(t, nil)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))

	fc, err := client.FetchContext(context.Background(), 1035000, false, false)
	if err != nil {
		t.Fatalf("FetchContext failed: %v", err)
	}

	if fc.ID != 1035000 || fc.Status != "FT" {
		t.Errorf("got id=%d status=%s", fc.ID, fc.Status)
	}
	if fc.Home.Name != "Arsenal" || fc.Away.ID != 20 {
		t.Errorf("teams not decoded: %+v %+v", fc.Home, fc.Away)
	}
	if h, a, ok := fc.FullTime(); !ok || h != 2 || a != 1 {
		t.Errorf("FullTime() = %d, %d, %v", h, a, ok)
	}
	if h, _, ok := fc.HalfTime(); !ok || h != 1 {
		t.Errorf("HalfTime() not decoded")
	}
	if fc.HasEvents() || fc.HasStatistics() {
		t.Error("enrichments must stay nil when not requested")
	}
}

func TestFetchContextWithEnrichments(t *testing.T) {
	server := feedServer(t, nil)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))

	fc, err := client.FetchContext(context.Background(), 1035000, true, true)
	if err != nil {
		t.Fatalf("FetchContext failed: %v", err)
	}

	if len(fc.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(fc.Events))
	}
	if fc.Events[0].Kind != KindGoal || fc.Events[0].Minute != 27 {
		t.Errorf("first event = %+v", fc.Events[0])
	}
	if fc.Events[1].Kind != KindYellowCard || fc.Events[1].Extra != 2 {
		t.Errorf("second event = %+v", fc.Events[1])
	}

	if v, ok := fc.Statistic(10, "Corner Kicks"); !ok || v != 7 {
		t.Errorf("home corners = %v, %v", v, ok)
	}
	if v, ok := fc.Statistic(20, "Ball Possession"); !ok || v != 42 {
		t.Errorf("away possession = %v, %v", v, ok)
	}
}

func TestFetchContextCaches(t *testing.T) {
	requests := 0
	server := feedServer(t, &requests)
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))

	if _, err := client.FetchContext(context.Background(), 1035000, false, false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := client.FetchContext(context.Background(), 1035000, false, false); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (second call served from cache)", requests)
	}

	// Asking for more enrichment than the cached entry carries refetches.
	if _, err := client.FetchContext(context.Background(), 1035000, true, false); err != nil {
		t.Fatalf("enriched fetch: %v", err)
	}
	if requests != 3 {
		t.Errorf("requests = %d, want 3 (fixture + events)", requests)
	}
}

func TestFetchContextNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": []}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if _, err := client.FetchContext(context.Background(), 42, false, false); err == nil {
		t.Error("expected an error for an unknown fixture")
	}
}
