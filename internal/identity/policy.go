// Package identity assigns product ids and resolves ids taken from request paths.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// Policy names accepted by New.
const (
	SequentialPolicy = "sequential"
	TokenPolicy      = "token"
)

// ErrInvalidID is returned when a raw id cannot belong to the policy.
var ErrInvalidID = errors.New("invalid product id")

// Policy is the rule by which a new product receives its id. The same policy
// must be used for assignment and for parsing ids supplied by callers.
type Policy interface {
	Name() string
	Next() models.ID
	Parse(raw string) (models.ID, error)
	// Observe records an id already present in the store so it is never handed out again.
	Observe(id models.ID)
}

// New returns the policy registered under name.
func New(name string) (Policy, error) {
	switch name {
	case SequentialPolicy:
		return NewSequential(), nil
	case TokenPolicy:
		return NewToken(), nil
	default:
		return nil, fmt.Errorf("unknown id policy %q", name)
	}
}

// Sequential hands out increasing integers. Deletions never move the counter back.
type Sequential struct {
	last atomic.Uint64
}

// NewSequential returns a policy whose first id is 1.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Name returns SequentialPolicy.
func (s *Sequential) Name() string { return SequentialPolicy }

// Next returns the id after the highest one handed out or observed.
func (s *Sequential) Next() models.ID {
	return models.ID(strconv.FormatUint(s.last.Add(1), 10))
}

// Parse accepts unsigned decimal ids and strips leading zeros.
func (s *Sequential) Parse(raw string) (models.ID, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return models.ID(strconv.FormatUint(n, 10)), nil
}

// Observe moves the counter up to id. Non-numeric ids are ignored.
func (s *Sequential) Observe(id models.ID) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return
	}
	for {
		cur := s.last.Load()
		if n <= cur || s.last.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Token hands out UUIDv7 values: a millisecond timestamp followed by random bits.
type Token struct{}

// NewToken returns a UUIDv7 policy.
func NewToken() *Token {
	return &Token{}
}

// Name returns TokenPolicy.
func (t *Token) Name() string { return TokenPolicy }

// Next returns a fresh UUIDv7.
func (t *Token) Next() models.ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		id = uuid.New()
	}
	return models.ID(id.String())
}

// Parse accepts any UUID and returns it in canonical form.
func (t *Token) Parse(raw string) (models.ID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return models.ID(id.String()), nil
}

// Observe does nothing for token ids.
func (t *Token) Observe(models.ID) {}
