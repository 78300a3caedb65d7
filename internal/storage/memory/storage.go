package memory

import (
	"context"
	"sync"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	nextID  model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
		nextID:  1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player.ID = s.nextID
	s.nextID++
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Query operations

func (s *Storage) ListPlayers(ctx context.Context, page model.PageRequest) ([]*model.Player, error) {
	return s.FindPlayers(ctx, nil, page)
}

func (s *Storage) FindPlayers(ctx context.Context, filter model.Filter, page model.PageRequest) ([]*model.Player, error) {
	return page.Window(s.matching(filter)), nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.players)), nil
}

func (s *Storage) CountMatching(ctx context.Context, filter model.Filter) (int64, error) {
	return int64(len(s.matching(filter))), nil
}

func (s *Storage) Close() error {
	return nil
}

// matching returns copies of all players satisfying the filter
func (s *Storage) matching(filter model.Filter) []*model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		if filter.Matches(player) {
			result = append(result, player.Clone())
		}
	}
	return result
}
