package hasher

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/signalpanel/auth-service/internal/models"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
//
// bcrypt is CPU-bound, so concurrent operations are capped at GOMAXPROCS:
// a burst of login attempts queues on the semaphore instead of saturating
// every scheduler thread and stalling unrelated requests.
type PasswordHasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewPasswordHasher creates a password hasher with the given bcrypt cost.
// Pass bcrypt.DefaultCost unless tests need a cheaper setting.
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash derives a bcrypt hash from a plaintext password
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("hash cancelled: %w", err)
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrHashing, err)
	}

	return string(hash), nil
}

// Verify checks a plaintext password against a stored bcrypt hash.
// A mismatch returns (false, nil); a corrupt or malformed stored hash
// returns ErrHashing so callers can tell bad input from bad storage.
func (h *PasswordHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("verify cancelled: %w", err)
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, fmt.Errorf("%w: %v", models.ErrHashing, err)
}
