package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "s3cret")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Compare(ctx, "s3cret", hash))
	assert.ErrorIs(t, h.Compare(ctx, "wrong", hash), ErrPasswordMismatch)
}

func TestPasswordHasher_TruncatesLongSecrets(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	// Only the first 72 bytes count; the byte after the limit is ignored, a
	// differing byte inside it is not.
	base := strings.Repeat("a", maxSecretLen)
	hash, err := h.Hash(ctx, base+"tail")
	assert.NoError(t, err)

	assert.NoError(t, h.Compare(ctx, base, hash))
	assert.NoError(t, h.Compare(ctx, base+"different-tail", hash))
	assert.ErrorIs(t, h.Compare(ctx, strings.Repeat("b", maxSecretLen), hash), ErrPasswordMismatch)
}

func TestPasswordHasher_CancelledContext(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "s3cret")
	assert.ErrorIs(t, err, context.Canceled)

	err = h.Compare(ctx, "s3cret", "$2a$04$notarealhash")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPasswordHasher_BoundedConcurrency(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Hash(ctx, "s3cret")
			assert.NoError(t, err)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("hash pool deadlocked")
	}

	// All slots released once the work is done.
	assert.Len(t, h.slots, 0)
}

func TestNewPasswordHasher_ClampsBadInputs(t *testing.T) {
	h := NewPasswordHasher(0, 0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
	assert.Equal(t, 1, cap(h.slots))
}
