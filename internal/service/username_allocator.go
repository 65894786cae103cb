package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "socialnet/internal/errors"
	"socialnet/internal/repository"
)

// UsernameAllocator derives unique handles of the form first.last[.N].
//
// The check and the later insert are not atomic: two concurrent signups with
// the same name can pick the same candidate, in which case the unique index
// rejects the second insert.
type UsernameAllocator struct {
	users repository.UserRepository
}

// NewUsernameAllocator creates an allocator backed by users.
func NewUsernameAllocator(users repository.UserRepository) *UsernameAllocator {
	return &UsernameAllocator{users: users}
}

// Allocate returns the first free candidate among first.last, first.last.1, ...
func (a *UsernameAllocator) Allocate(ctx context.Context, firstName, lastName string) (string, error) {
	base := strings.ToLower(firstName + "." + lastName)

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		candidate := base
		if n > 0 {
			candidate = base + "." + strconv.Itoa(n)
		}

		_, err := a.users.FindByUsername(ctx, candidate)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check username %q: %w", candidate, err)
		}
	}
}
