package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions expire after a day of inactivity; an abandoned draft is not worth
// keeping longer.
const sessionTTL = 24 * time.Hour

// RedisStore persists sessions as JSON values, one key per chat. The bot is
// a single process, so atomicity of Update is provided by a per-key
// in-process lock around the GET/SET pair.
type RedisStore struct {
	rdb    *redis.Client
	mu     sync.Mutex
	locks  map[int64]*sync.Mutex
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		locks:  make(map[int64]*sync.Mutex),
		prefix: "session:",
	}
}

func (r *RedisStore) key(chatID int64) string {
	return fmt.Sprintf("%s%d", r.prefix, chatID)
}

func (r *RedisStore) lock(chatID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[chatID] = l
	}
	return l
}

func (r *RedisStore) load(ctx context.Context, chatID int64) (Session, error) {
	data, err := r.rdb.Get(ctx, r.key(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt value is unrecoverable; start the chat over.
		return Session{}, nil
	}
	return sess, nil
}

func (r *RedisStore) Get(ctx context.Context, chatID int64) (Session, error) {
	l := r.lock(chatID)
	l.Lock()
	defer l.Unlock()
	return r.load(ctx, chatID)
}

func (r *RedisStore) Update(ctx context.Context, chatID int64, fn func(*Session)) (Session, error) {
	l := r.lock(chatID)
	l.Lock()
	defer l.Unlock()

	sess, err := r.load(ctx, chatID)
	if err != nil {
		return Session{}, err
	}

	fn(&sess)

	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, fmt.Errorf("session marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key(chatID), data, sessionTTL).Err(); err != nil {
		return Session{}, fmt.Errorf("session set: %w", err)
	}
	return sess, nil
}

func (r *RedisStore) Clear(ctx context.Context, chatID int64) error {
	l := r.lock(chatID)
	l.Lock()
	defer l.Unlock()

	if err := r.rdb.Del(ctx, r.key(chatID)).Err(); err != nil {
		return fmt.Errorf("session del: %w", err)
	}
	return nil
}
