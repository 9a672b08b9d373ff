package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTickInProgress is returned when another tick holds the lock.
var ErrTickInProgress = errors.New("tick already in progress")

// TickLock serialises ticks across processes.  Acquire returns a release
// function that must be called when the tick ends.
type TickLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// releaseScript deletes the key only if it still holds our token, so a
// lock that expired and was taken over is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLock is a TickLock backed by a single Redis key written with
// SET NX PX.
type RedisLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisLock returns a lock on key that expires after ttl even if the
// holder dies.  A nil client yields a nil lock, meaning ticks run
// unguarded.
func NewRedisLock(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLock{rdb: rdb, key: key, ttl: ttl}
}

// Acquire takes the lock or returns ErrTickInProgress.  When Redis itself
// fails, or l is nil, the tick proceeds without the lock.
func (l *RedisLock) Acquire(ctx context.Context) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		log.Printf("tick: lock unavailable, running unguarded: %v", err)
		return func() {}, nil
	}
	if !ok {
		return nil, ErrTickInProgress
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			log.Printf("tick: lock release failed: %v", err)
		}
	}, nil
}
