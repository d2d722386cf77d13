package notes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akhdanfadh/notekeep/internal/logger"
)

func TestRetryDoer(t *testing.T) {
	tests := map[string]struct {
		responses    []int // sequence of status codes to return
		wantErr      bool
		errContain   string
		wantAttempts int
	}{
		"success on first attempt": {
			responses:    []int{http.StatusOK},
			wantAttempts: 1,
		},
		"client error (4xx) returns immediately": {
			responses:    []int{http.StatusBadRequest},
			wantErr:      true,
			errContain:   "HTTP 400",
			wantAttempts: 1,
		},
		"not found returns immediately": {
			responses:    []int{http.StatusNotFound},
			wantErr:      true,
			errContain:   "HTTP 404",
			wantAttempts: 1,
		},
		"server error (5xx) retries then surfaces APIError": {
			responses:    []int{http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError},
			wantErr:      true,
			errContain:   "HTTP 500",
			wantAttempts: 3,
		},
		"server error then success": {
			responses:    []int{http.StatusInternalServerError, http.StatusOK},
			wantAttempts: 2,
		},
		"rate limited retries with backoff": {
			responses:    []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests},
			wantErr:      true,
			errContain:   "HTTP 429",
			wantAttempts: 3,
		},
		"rate limited then success": {
			responses:    []int{http.StatusTooManyRequests, http.StatusOK},
			wantAttempts: 2,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				statusCode := tc.responses[attempts]
				attempts++
				w.WriteHeader(statusCode)
			}))
			defer server.Close()

			doer := NewRetryDoer(server.Client(),
				WithMaxAttempts(3),
				WithRetryWait(0), // no wait for test speed
			)
			client := NewClient(server.URL, WithDoer(doer))

			err := client.Send(context.Background(), Request{Method: http.MethodGet, Path: "notes"}, nil)

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tc.errContain != "" && !strings.Contains(err.Error(), tc.errContain) {
					t.Errorf("expected error to contain %q, got %q", tc.errContain, err.Error())
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if attempts != tc.wantAttempts {
				t.Errorf("expected %d attempts, got %d", tc.wantAttempts, attempts)
			}
		})
	}
}

func TestRetryDoer_ReplaysBody(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		n := len(bodies)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"5","title":"Groceries"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithDoer(NewRetryDoer(server.Client(), WithRetryWait(0))))
	created, err := client.Create(context.Background(), Note{"title": "Groceries"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID() != "5" {
		t.Errorf("created ID = %q, want 5", created.ID())
	}

	if len(bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(bodies))
	}
	for i, body := range bodies {
		if body != `{"title":"Groceries"}` {
			t.Errorf("attempt %d body = %q", i+1, body)
		}
	}
}

// failingDoer always returns a transport error.
type failingDoer struct{ calls int }

func (d *failingDoer) Do(*http.Request) (*http.Response, error) {
	d.calls++
	return nil, errors.New("connection refused")
}

func TestRetryDoer_NetworkErrors(t *testing.T) {
	next := &failingDoer{}
	var buf bytes.Buffer
	doer := NewRetryDoer(next,
		WithMaxAttempts(3),
		WithRetryWait(0),
		WithRetryLogger(logger.NewStdLogger(&buf, logger.LevelWarn)),
	)

	req, err := http.NewRequest(http.MethodGet, "http://example.invalid/notes", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = doer.Do(req)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Errorf("unexpected error: %v", err)
	}
	if next.calls != 3 {
		t.Errorf("expected 3 calls, got %d", next.calls)
	}
	if got := strings.Count(buf.String(), "[WARN]"); got != 2 {
		t.Errorf("expected 2 retry warnings, got %d: %q", got, buf.String())
	}
}

func TestRetryDoer_ZeroAttemptsStillTriesOnce(t *testing.T) {
	next := &failingDoer{}
	doer := NewRetryDoer(next, WithMaxAttempts(0), WithRetryWait(0))

	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid/notes", nil)
	_, _ = doer.Do(req)
	if next.calls != 1 {
		t.Errorf("expected 1 call, got %d", next.calls)
	}
}

func TestRetryDoer_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithDoer(NewRetryDoer(server.Client(),
		WithMaxAttempts(3),
		WithRetryWait(time.Second),
	)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := client.Send(ctx, Request{Method: http.MethodGet, Path: "notes"}, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("cancellation was not honored during backoff, took %s", elapsed)
	}
}

func TestRetryDoer_Backoff(t *testing.T) {
	tests := map[string]struct {
		wait    time.Duration
		attempt int
		want    time.Duration
	}{
		"first retry uses base wait": {wait: time.Second, attempt: 0, want: time.Second},
		"doubles per attempt":        {wait: time.Second, attempt: 3, want: 8 * time.Second},
		"capped at 30s":              {wait: time.Second, attempt: 5, want: maxBackoff},
		"large attempt stays capped": {wait: time.Second, attempt: 40, want: maxBackoff},
		"huge attempt stays capped":  {wait: time.Millisecond, attempt: 1 << 20, want: maxBackoff},
		"zero wait stays zero":       {wait: 0, attempt: 50, want: 0},
		"base above cap is capped":   {wait: time.Minute, attempt: 0, want: maxBackoff},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			d := NewRetryDoer(nil, WithRetryWait(tc.wait))
			if got := d.backoff(tc.attempt); got != tc.want {
				t.Errorf("backoff(%d) = %s, want %s", tc.attempt, got, tc.want)
			}
		})
	}
}
