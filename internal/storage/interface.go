package storage

import (
	"context"
	"errors"

	"github.com/mcoot/playerregistry/internal/model"
)

// ErrUnavailable is returned when the storage backend is refusing requests
var ErrUnavailable = errors.New("storage unavailable")

// Storage defines the interface for data persistence
type Storage interface {
	// CreatePlayer inserts a new player and assigns its ID
	CreatePlayer(ctx context.Context, player *model.Player) error
	// SavePlayer overwrites an existing player; ErrPlayerNotFound if it does not exist
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Unfiltered queries
	ListPlayers(ctx context.Context, page model.PageRequest) ([]*model.Player, error)
	CountPlayers(ctx context.Context) (int64, error)

	// Filtered queries; the filter is a conjunction of predicates
	FindPlayers(ctx context.Context, filter model.Filter, page model.PageRequest) ([]*model.Player, error)
	CountMatching(ctx context.Context, filter model.Filter) (int64, error)

	Close() error
}
