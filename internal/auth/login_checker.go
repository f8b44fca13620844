package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/coachlab/internal/telemetry/tracing"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// Session returns the stored session for token, if it exists and is not older than the TTL.
func (c *LoginChecker) Session(ctx context.Context, token string) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.loginChecker.session")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return nil, ErrSessionNotFound
	}

	sessionJson, err := c.redisClient.Get(ctx, SessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(sessionJson, &session); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionInvalid, err)
	}
	if session.UserID == "" || session.CreatedAt.IsZero() {
		return nil, ErrSessionInvalid
	}

	span.SetAttributes(attribute.String("user.id", session.UserID))

	if c.now().Sub(session.CreatedAt) > c.ttl {
		return nil, ErrSessionExpired
	}

	return &session, nil
}
