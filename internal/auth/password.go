package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores input past 72 bytes; secrets are truncated to that
// limit deterministically, and identically, at hash and verify time.
const maxSecretLen = 72

// ErrPasswordMismatch is returned by Compare when the password does not match
// the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

type hashResult struct {
	hash string
	err  error
}

// PasswordHasher runs bcrypt on a bounded worker pool so CPU-bound hashing
// never starves request-serving goroutines. Callers block only on their own
// result or context cancellation; the pool size caps concurrent hash work.
type PasswordHasher struct {
	cost  int
	slots chan struct{}
}

// NewPasswordHasher builds a hasher with the given bcrypt cost and worker
// count. Workers should be sized for the expected concurrent-login load.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers < 1 {
		workers = 1
	}
	return &PasswordHasher{
		cost:  cost,
		slots: make(chan struct{}, workers),
	}
}

// Hash hashes a password. Blocks while all workers are busy; honors ctx while
// waiting for a slot and while the hash computes.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	done := make(chan hashResult, 1)
	go func() {
		defer func() { <-h.slots }()
		hash, err := bcrypt.GenerateFromPassword(truncateSecret(password), h.cost)
		done <- hashResult{hash: string(hash), err: err}
	}()

	select {
	case res := <-done:
		return res.hash, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Compare verifies a password against a stored hash. Returns
// ErrPasswordMismatch on mismatch; other errors indicate a malformed hash.
func (h *PasswordHasher) Compare(ctx context.Context, password, hash string) error {
	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-h.slots }()
		done <- bcrypt.CompareHashAndPassword([]byte(hash), truncateSecret(password))
	}()

	select {
	case err := <-done:
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func truncateSecret(password string) []byte {
	b := []byte(password)
	if len(b) > maxSecretLen {
		b = b[:maxSecretLen]
	}
	return b
}
