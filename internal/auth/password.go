package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// MaxPasswordBytes is the longest password bcrypt reads; later bytes are ignored.
const MaxPasswordBytes = 72

// PasswordHasher hashes and verifies passwords with bcrypt. Each operation runs
// on its own goroutine, bounded by a semaphore, so slow hashing never holds more
// than the configured number of CPUs and callers can give up through ctx.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher builds a hasher with a fixed bcrypt cost and at most workers concurrent operations.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if workers <= 0 {
		workers = 1
	}
	return &PasswordHasher{cost: cost, sem: semaphore.NewWeighted(int64(workers))}
}

type result struct {
	digest []byte
	err    error
}

// Hash returns a salted bcrypt digest of plain.
func (h *PasswordHasher) Hash(ctx context.Context, plain string) (string, error) {
	res, err := h.run(ctx, func() result {
		digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
		return result{digest: digest, err: err}
	})
	if err != nil {
		return "", err
	}
	if res.err != nil {
		return "", fmt.Errorf("failed to hash password: %w", res.err)
	}
	return string(res.digest), nil
}

// Verify reports whether plain matches digest. A mismatch returns false with a nil error.
// Passwords longer than MaxPasswordBytes never match, but still pay for a full comparison.
func (h *PasswordHasher) Verify(ctx context.Context, digest, plain string) (bool, error) {
	res, err := h.run(ctx, func() result {
		err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
		if err == nil && len(plain) > MaxPasswordBytes {
			err = bcrypt.ErrMismatchedHashAndPassword
		}
		return result{err: err}
	})
	if err != nil {
		return false, err
	}
	switch {
	case res.err == nil:
		return true, nil
	case res.err == bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", res.err)
	}
}

func (h *PasswordHasher) run(ctx context.Context, fn func() result) (result, error) {
	if err := ctx.Err(); err != nil {
		return result{}, err
	}
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return result{}, err
	}

	done := make(chan result, 1)
	go func() {
		res := fn()
		h.sem.Release(1)
		done <- res
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}
