package sessions

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID string, token string, validity time.Duration) error
	DeleteExpired(ctx context.Context) (int64, error)
}
