package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Kerhoff/RepBoT/internal/models"
	"github.com/Kerhoff/RepBoT/internal/repository"
)

const keyPrefix = "repbot:session:"

type sessionRepository struct {
	client *goredis.Client
}

// NewClient builds a client from a redis:// or rediss:// URL.
func NewClient(url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return goredis.NewClient(opt), nil
}

// NewSessionRepository stores each scope as a hash holding the token and
// user id fields.
func NewSessionRepository(client *goredis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) Get(ctx context.Context, scope string) (*models.Session, error) {
	entries, err := r.client.HGetAll(ctx, keyPrefix+scope).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return repository.SessionFromEntries(entries)
}

func (r *sessionRepository) Save(ctx context.Context, scope string, session models.Session) error {
	key := keyPrefix + scope
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, repository.Entries(session))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, scope string) error {
	if err := r.client.Del(ctx, keyPrefix+scope).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
