package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Deduper tracks already-seen webhook identifiers.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

type redisDeduper struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func (d *redisDeduper) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.prefix+":"+key, "1", d.ttl).Result()
	if err != nil {
		return false, err
	}
	// false => already exists => duplicate
	return !ok, nil
}

type memoryDeduper struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	nextGC time.Time
}

func newMemoryDeduper(ttl time.Duration) *memoryDeduper {
	now := time.Now()
	return &memoryDeduper{
		seen:   make(map[string]time.Time),
		ttl:    ttl,
		nextGC: now.Add(ttl),
	}
}

func (d *memoryDeduper) Seen(_ context.Context, key string) (bool, error) {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if exp, ok := d.seen[key]; ok && exp.After(now) {
		return true, nil
	}

	d.seen[key] = now.Add(d.ttl)
	if now.After(d.nextGC) {
		for id, exp := range d.seen {
			if exp.Before(now) {
				delete(d.seen, id)
			}
		}
		d.nextGC = now.Add(d.ttl)
	}

	return false, nil
}

// NewDeduper builds a Redis deduper and falls back to in-memory on failure.
func NewDeduper(addr, pass string, db int, ttl time.Duration) (Deduper, error) {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if addr == "" {
		return newMemoryDeduper(ttl), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return newMemoryDeduper(ttl), err
	}

	return &redisDeduper{
		client: client,
		prefix: "webhook",
		ttl:    ttl,
	}, nil
}

// TelegramUpdateDedup drops duplicate Telegram webhook updates by update_id.
func TelegramUpdateDedup(deduper Deduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			req := c.Request()
			if req.Body == nil {
				return next(c)
			}

			rawBody, err := io.ReadAll(req.Body)
			if err != nil {
				return next(c)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(rawBody))
			if len(rawBody) == 0 {
				return next(c)
			}

			var payload struct {
				UpdateID json.Number `json:"update_id"`
			}
			if err := json.Unmarshal(rawBody, &payload); err != nil || payload.UpdateID == "" {
				return next(c)
			}

			isDuplicate, err := deduper.Seen(req.Context(), "tg:"+payload.UpdateID.String())
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				// Telegram only needs a 2xx response to stop retries.
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}

// GatewayEventDedup drops replayed payment-gateway webhook deliveries by
// event id. Deliveries without an event id pass through; the durable
// processed set downstream still refuses them.
func GatewayEventDedup(deduper Deduper) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deduper == nil {
				return next(c)
			}

			eventID := c.Request().Header.Get("X-Razorpay-Event-Id")
			if eventID == "" {
				return next(c)
			}

			isDuplicate, err := deduper.Seen(c.Request().Context(), "rzp:"+eventID)
			if err != nil {
				return next(c)
			}
			if isDuplicate {
				return c.NoContent(http.StatusOK)
			}

			return next(c)
		}
	}
}
