package otp

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrNotFound = errors.New("otp not found or expired")

// Store guarda o hash do código com TTL e o contador de tentativas.
type Store interface {
	// Save grava um código novo e zera as tentativas.
	Save(ctx context.Context, key, hash string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Attempt incrementa e devolve o número de tentativas do código atual.
	Attempt(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Consume apaga o código só se ele ainda for hash. false: outro levou.
	Consume(ctx context.Context, key, hash string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// ------------------------------------------------------
// Memória
// ------------------------------------------------------

type entry struct {
	hash      string
	attempts  int64
	expiresAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]*entry{}, now: time.Now}
}

// live devolve a entrada válida; chamar com mu travado.
func (s *MemoryStore) live(key string) (*entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) Save(_ context.Context, key, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry{hash: hash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.hash, nil
}

func (s *MemoryStore) Attempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return 0, ErrNotFound
	}
	e.attempts++
	return e.attempts, nil
}

func (s *MemoryStore) Consume(_ context.Context, key, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok || e.hash != hash {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// ------------------------------------------------------
// Redis
// ------------------------------------------------------

// KEYS[1]=código, KEYS[2]=tentativas, ARGV[1]=hash esperado
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1], KEYS[2])
	return 1
end
return 0
`)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func attemptsKey(key string) string {
	return key + ":attempts"
}

func (s *RedisStore) Save(ctx context.Context, key, hash string, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, hash, ttl)
		p.Del(ctx, attemptsKey(key))
		return nil
	})
	return err
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *RedisStore) Attempt(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, attemptsKey(key))
		p.Expire(ctx, attemptsKey(key), ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStore) Consume(ctx context.Context, key, hash string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{key, attemptsKey(key)}, hash).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key, attemptsKey(key)).Err()
}
