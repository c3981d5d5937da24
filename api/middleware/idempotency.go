package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/campuseats/campuseats-backend/api/responses"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	pkgredis "github.com/campuseats/campuseats-backend/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"

	// Mutations that create money-adjacent records keep their replay window
	// for a week; everything else for a day.
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// guardedRoute decides whether a chi route pattern is covered and with what
// TTL. Exact patterns match verbatim; wildcard patterns match prefix+suffix
// so parameterized routes like /api/v1/shops/{shopID}/checkout are covered.
type guardedRoute struct {
	exact  string
	prefix string
	suffix string
	ttl    time.Duration
}

func (g guardedRoute) matches(pattern string) bool {
	if g.exact != "" {
		return pattern == g.exact
	}
	return strings.HasPrefix(pattern, g.prefix) && strings.HasSuffix(pattern, g.suffix)
}

var guardedPosts = []guardedRoute{
	{exact: "/api/v1/auth/register/student", ttl: defaultIdempotencyTTL},
	{exact: "/api/v1/auth/register/vendor", ttl: defaultIdempotencyTTL},
	{exact: "/api/v1/cart/items", ttl: defaultIdempotencyTTL},
	{exact: "/api/v1/vendor/shop", ttl: defaultIdempotencyTTL},
	{exact: "/api/v1/vendor/menu", ttl: defaultIdempotencyTTL},
	{prefix: "/api/v1/shops/", suffix: "/checkout", ttl: criticalIdempotencyTTL},
	{prefix: "/api/v1/orders/", suffix: "/cancel", ttl: criticalIdempotencyTTL},
}

// storedReply is what Redis keeps per (scope, key): enough to replay the
// original response verbatim, plus the request hash to detect key reuse with
// a different body.
type storedReply struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the first response for repeated POSTs carrying the same
// Idempotency-Key. The key is scoped per user, method, and path, so two users
// may reuse the same literal key without colliding.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, guarded := guardTTL(r)
			if !guarded || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := base64.StdEncoding.EncodeToString(sum[:])

			scope := UserIDFromContext(r.Context()) + "|" + r.Method + "|" + r.URL.Path
			storeKey := store.IdempotencyKey(scope, key)

			replayed, err := replayIfStored(r.Context(), store, storeKey, requestHash, w)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if replayed {
				return
			}

			rec := newReplayRecorder(w)
			next.ServeHTTP(rec, r)

			if err := persistReply(r.Context(), store, storeKey, rec, requestHash, ttl); err != nil {
				logIdempotencyError(r.Context(), logg, "persist idempotency record", err)
			}
		})
	}
}

// replayIfStored writes the stored response when one exists. It returns a
// typed error on Redis failures or on key reuse with a different body.
func replayIfStored(ctx context.Context, store pkgredis.IdempotencyStore, key, requestHash string, w http.ResponseWriter) (bool, error) {
	stored, err := store.Get(ctx, key)
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	if stored == "" {
		return false, nil
	}

	var reply storedReply
	if err := json.Unmarshal([]byte(stored), &reply); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	if reply.RequestHash != requestHash {
		return false, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body")
	}

	if ct := reply.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(reply.Status)
	if decoded, decErr := base64.StdEncoding.DecodeString(reply.Body); decErr == nil {
		_, _ = w.Write(decoded)
	}
	return true, nil
}

func persistReply(ctx context.Context, store pkgredis.IdempotencyStore, key string, rec *replayRecorder, requestHash string, ttl time.Duration) error {
	reply := storedReply{
		Status:      rec.statusOrOK(),
		Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
		RequestHash: requestHash,
	}
	if ct := rec.Header().Get("Content-Type"); ct != "" {
		reply.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	_, err = store.SetNX(ctx, key, string(payload), ttl)
	return err
}

func guardTTL(r *http.Request) (time.Duration, bool) {
	if r.Method != http.MethodPost {
		return 0, false
	}
	pattern := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			pattern = p
		}
	}
	for _, route := range guardedPosts {
		if route.matches(pattern) {
			return route.ttl, true
		}
	}
	return 0, false
}

// replayRecorder tees the response so a copy can be stored for replay.
type replayRecorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func newReplayRecorder(w http.ResponseWriter) *replayRecorder {
	return &replayRecorder{ResponseWriter: w}
}

func (r *replayRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *replayRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *replayRecorder) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func logIdempotencyError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg == nil || err == nil {
		return
	}
	logg.Error(ctx, msg, err)
}
