package tradier_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bcdannyboy/stocsim/tradier"
	"go.uber.org/zap/zaptest"
)

const historyJSON = `{"history":{"day":[
{"date":"2024-01-02","open":100,"high":102,"low":99,"close":101,"volume":1000},
{"date":"2024-01-03","open":101,"high":103,"low":100,"close":102.5,"volume":1200},
{"date":"2024-01-04","open":102.5,"high":104,"low":101,"close":103,"volume":900}
]}}`

func TestGetQuotes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "SPY" || q.Get("start") != "2024-01-01" || q.Get("end") != "2024-01-05" || q.Get("interval") != "daily" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer srv.Close()

	c := tradier.NewClient("secret", zaptest.NewLogger(t))
	c.BaseURL = srv.URL

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	h, err := c.GetQuotes(context.Background(), "SPY", start, end, "daily")
	if err != nil {
		t.Fatalf("GetQuotes error: %v", err)
	}

	closes := h.Closes()
	want := []float64{101, 102.5, 103}
	if len(closes) != len(want) {
		t.Fatalf("closes = %v, want %v", closes, want)
	}
	for i := range want {
		if closes[i] != want[i] {
			t.Fatalf("closes = %v, want %v", closes, want)
		}
	}

	bars := h.Bars()
	if bars[1].High != 103 || bars[1].Low != 100 || bars[1].Open != 101 {
		t.Fatalf("unexpected bar %+v", bars[1])
	}
}

func TestGetQuotesSingleDayObject(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"history":{"day":{"date":"2024-01-02","open":1,"high":2,"low":1,"close":1.5,"volume":10}}}`))
	}))
	defer srv.Close()

	c := tradier.NewClient("secret", nil)
	c.BaseURL = srv.URL

	h, err := c.GetQuotes(context.Background(), "SPY", time.Now(), time.Now(), "daily")
	if err != nil {
		t.Fatalf("GetQuotes error: %v", err)
	}
	if closes := h.Closes(); len(closes) != 1 || closes[0] != 1.5 {
		t.Fatalf("closes = %v", closes)
	}
}

func TestGetQuotesErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid access token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := tradier.NewClient("bad", nil)
	c.BaseURL = srv.URL
	_, err := c.GetQuotes(context.Background(), "SPY", time.Now(), time.Now(), "daily")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("got %v, want a 401 error", err)
	}

	c.Token = ""
	if _, err := c.GetQuotes(context.Background(), "SPY", time.Now(), time.Now(), "daily"); err == nil {
		t.Fatal("expected an error without a token")
	}
}
