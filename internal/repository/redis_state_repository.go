package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/tutordesk/internal/models"
	appErrors "github.com/noah-isme/tutordesk/pkg/errors"
)

// RedisStateRepository keeps the roster document as a single Redis string.
type RedisStateRepository struct {
	client redis.Cmdable
	key    string
}

// NewRedisStateRepository constructs the repository.
func NewRedisStateRepository(client redis.Cmdable, key string) *RedisStateRepository {
	return &RedisStateRepository{client: client, key: "tutordesk:state:" + key}
}

// Load reads the document.
func (r *RedisStateRepository) Load(ctx context.Context) (*models.AppState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "state document not found")
		}
		return nil, fmt.Errorf("load state document: %w", err)
	}
	return decodeState(data)
}

// Save overwrites the document without expiry.
func (r *RedisStateRepository) Save(ctx context.Context, state models.AppState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save state document: %w", err)
	}
	return nil
}
