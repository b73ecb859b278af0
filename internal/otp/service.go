package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	CodeLength  = 6
	DefaultTTL  = 10 * time.Minute
	MaxAttempts = 5
)

// ErrInvalidCode cobre código errado, vencido ou inexistente.
var ErrInvalidCode = errors.New("invalid or expired code")

// ErrTooManyAttempts: o código foi queimado depois de MaxAttempts tentativas.
var ErrTooManyAttempts = fmt.Errorf("%w: too many attempts", ErrInvalidCode)

type Service struct {
	store Store
	ttl   time.Duration
	rand  io.Reader
}

func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{store: store, ttl: ttl, rand: rand.Reader}
}

func key(purpose, subject string) string {
	return "otp:" + purpose + ":" + strings.ToLower(strings.TrimSpace(subject))
}

// Issue gera um código numérico, guarda só o hash e devolve o código.
// Um novo código substitui o anterior.
func (s *Service) Issue(ctx context.Context, purpose, subject string) (string, error) {
	max := big.NewInt(1_000_000)
	n, err := rand.Int(s.rand, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	code := fmt.Sprintf("%0*d", CodeLength, n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}
	if err := s.store.Save(ctx, key(purpose, subject), string(hash), s.ttl); err != nil {
		return "", fmt.Errorf("save otp: %w", err)
	}
	return code, nil
}

// Verify consome o código. Cada tentativa conta, certa ou errada; passada
// a cota o código é apagado. Só uma verificação concorrente vence o Consume.
func (s *Service) Verify(ctx context.Context, purpose, subject, code string) error {
	k := key(purpose, subject)

	hash, err := s.store.Get(ctx, k)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}

	n, err := s.store.Attempt(ctx, k, s.ttl)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("count otp attempt: %w", err)
	}
	if n > MaxAttempts {
		if err := s.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete otp: %w", err)
		}
		return ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(code))) != nil {
		return ErrInvalidCode
	}

	ok, err := s.store.Consume(ctx, k, hash)
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}
