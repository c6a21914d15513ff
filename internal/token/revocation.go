package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records logged-out token ids in Redis until their natural
// expiry. A signed token stays cryptographically valid after logout; the
// list is what actually retires it early.
type RevocationList struct {
	rdb *redis.Client
}

func NewRevocationList(rdb *redis.Client) *RevocationList {
	return &RevocationList{rdb: rdb}
}

// Revoke marks the token id as dead until the token would have expired
// anyway. Already-expired tokens need no entry.
func (l *RevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return l.rdb.Set(ctx, "revoked:"+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (l *RevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := l.rdb.Get(ctx, "revoked:"+jti).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
