package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetJSON_Non2xxReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	client.maxAttempts = 1

	var out map[string]any
	err := client.getJSON(context.Background(), server.URL+"/fail", &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetJSON_RetriesTransientServerErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt32(&attempts, 1)
		if current < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("retry later"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/retry", &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestGetJSON_DoesNotRetryOnClientErrors(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad request"))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	client.retryBase = time.Millisecond
	client.retryCap = 2 * time.Millisecond

	var out map[string]any
	if err := client.getJSON(context.Background(), server.URL+"/bad-request", &out); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestFetchSeats_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seats" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "message": "OK",
  "statusCode": 200,
  "result": [
    {"id": "a", "rowPosition": 1, "columnPosition": 1, "seatNumber": "A1", "reservableType": "RESERVABLE"},
    {"id": "b", "rowPosition": 1, "columnPosition": 2, "seatNumber": "A2", "reservableType": "NOT_RESERVABLE"}
  ]
}`))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	seats, err := client.FetchSeats(context.Background(), server.URL+"/seats")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(seats) != 2 || seats[1].SeatNumber != "A2" || seats[1].IsReservable() {
		t.Fatalf("unexpected seats: %+v", seats)
	}
}

func TestFetchSeats_EnvelopeStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "hall closed", "statusCode": 503, "result": []}`))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	_, err := client.FetchSeats(context.Background(), server.URL)
	var envErr *EnvelopeError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected envelope error, got %v", err)
	}
	if envErr.StatusCode != 503 || !strings.Contains(err.Error(), "hall closed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchSeats_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(server.Client())
	_, err := client.FetchSeats(context.Background(), server.URL+"/missing")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFetchSeats_RequiresURL(t *testing.T) {
	if _, err := NewClient(nil).FetchSeats(context.Background(), "  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestRetryDelay_Caps(t *testing.T) {
	client := NewClient(nil)
	cases := map[int]time.Duration{
		0: 200 * time.Millisecond,
		1: 200 * time.Millisecond,
		2: 400 * time.Millisecond,
		3: 1200 * time.Millisecond,
		9: 1200 * time.Millisecond,
	}
	for attempt, want := range cases {
		if got := client.retryDelay(attempt); got != want {
			t.Fatalf("attempt %d: expected %v, got %v", attempt, want, got)
		}
	}
}
