// Package breaker wraps a storage backend in a circuit breaker so that an
// unreachable backend fails fast with storage.ErrUnavailable.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
)

// Config holds circuit breaker settings
type Config struct {
	// MaxRequests allowed through while half-open
	MaxRequests uint32
	// Interval after which closed-state counts are cleared
	Interval time.Duration
	// Timeout spent open before probing again
	Timeout time.Duration
	// MinRequests seen before the failure ratio is considered
	MinRequests uint32
	// FailureRatio at or above which the breaker trips
	FailureRatio float64
}

// DefaultConfig returns sensible defaults for the breaker
func DefaultConfig() Config {
	return Config{
		MaxRequests:  1,
		Interval:     10 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// Storage decorates another storage with a circuit breaker
type Storage struct {
	next storage.Storage
	cb   *gobreaker.CircuitBreaker
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New wraps next. The name labels state change log lines.
func New(name string, next storage.Storage, cfg Config, logger *slog.Logger) *Storage {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		IsSuccessful: isSuccessful,
	}

	return &Storage{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(st),
	}
}

// State reports the breaker's current state
func (s *Storage) State() gobreaker.State {
	return s.cb.State()
}

// isSuccessful counts domain outcomes and caller cancellation as healthy
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, model.ErrPlayerNotFound) ||
		errors.Is(err, context.Canceled)
}

func execute[T any](s *Storage, fn func() (T, error)) (T, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func run(s *Storage, fn func() error) error {
	_, err := execute(s, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	return run(s, func() error { return s.next.CreatePlayer(ctx, player) })
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	return run(s, func() error { return s.next.SavePlayer(ctx, player) })
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return execute(s, func() (*model.Player, error) { return s.next.GetPlayer(ctx, id) })
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	return run(s, func() error { return s.next.DeletePlayer(ctx, id) })
}

// Query operations

func (s *Storage) ListPlayers(ctx context.Context, page model.PageRequest) ([]*model.Player, error) {
	return execute(s, func() ([]*model.Player, error) { return s.next.ListPlayers(ctx, page) })
}

func (s *Storage) CountPlayers(ctx context.Context) (int64, error) {
	return execute(s, func() (int64, error) { return s.next.CountPlayers(ctx) })
}

func (s *Storage) FindPlayers(ctx context.Context, filter model.Filter, page model.PageRequest) ([]*model.Player, error) {
	return execute(s, func() ([]*model.Player, error) { return s.next.FindPlayers(ctx, filter, page) })
}

func (s *Storage) CountMatching(ctx context.Context, filter model.Filter) (int64, error) {
	return execute(s, func() (int64, error) { return s.next.CountMatching(ctx, filter) })
}

// Close closes the wrapped storage without consulting the breaker
func (s *Storage) Close() error {
	return s.next.Close()
}
