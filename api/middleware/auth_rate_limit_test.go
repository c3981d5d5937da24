package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
)

func TestAuthRateLimitPassesAndRestoresBody(t *testing.T) {
	t.Parallel()

	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 5, 5)
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"email":"student@campus.edu"`) {
			t.Fatalf("body not restored for downstream handler: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("student@campus.edu", "1.2.3.4:5678"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksRepeatedEmail(t *testing.T) {
	t.Parallel()

	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, store, nil)(okHandler())

	for attempt := 1; attempt <= 3; attempt++ {
		rec := httptest.NewRecorder()
		// same email from rotating addresses
		handler.ServeHTTP(rec, loginRequest("stuffed@campus.edu", fmt.Sprintf("10.0.0.%d:80", attempt)))

		if attempt <= 2 && rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 under limit, got %d", attempt, rec.Code)
		}
		if attempt == 3 {
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("attempt %d: expected 429, got %d", attempt, rec.Code)
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected error code %q", payload.Error.Code)
			}
		}
	}
}

func TestAuthRateLimitBlocksRepeatedIP(t *testing.T) {
	t.Parallel()

	store := newFakeRateStore()
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, store, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginRequest("a@campus.edu", "5.6.7.8:1234"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request through, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginRequest("b@campus.edu", "5.6.7.8:4321"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for repeated IP, got %d", second.Code)
	}
}

func TestAuthRateLimitDisabledPolicyIsNoop(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("login", 0, 10, 10)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("any@campus.edu", "9.9.9.9:1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("zero window must disable limiting, got %d", rec.Code)
		}
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loginRequest(email, remoteAddr string) *http.Request {
	body := `{"email":"` + email + `","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	return req
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}
