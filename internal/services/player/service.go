package player

import (
	"context"
	"log/slog"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
)

// Service implements the player operations on top of a storage backend
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// List returns one page of players matching the filter parameters.
// Pagination directives are read from the reserved parameter names.
func (s *Service) List(ctx context.Context, params map[string]string) ([]*model.Player, error) {
	pageParams, filterParams := SplitParams(params)

	page, err := ResolvePage(pageParams)
	if err != nil {
		return nil, err
	}

	if len(filterParams) == 0 {
		return s.storage.ListPlayers(ctx, page)
	}

	filter, err := BuildFilter(filterParams)
	if err != nil {
		return nil, err
	}
	return s.storage.FindPlayers(ctx, filter, page)
}

// Count returns the number of players matching the filter parameters
func (s *Service) Count(ctx context.Context, params map[string]string) (int64, error) {
	_, filterParams := SplitParams(params)

	if len(filterParams) == 0 {
		return s.storage.CountPlayers(ctx)
	}

	filter, err := BuildFilter(filterParams)
	if err != nil {
		return 0, err
	}
	return s.storage.CountMatching(ctx, filter)
}

// Get retrieves a player by its raw identifier
func (s *Service) Get(ctx context.Context, rawID string) (*model.Player, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.storage.GetPlayer(ctx, id)
}

// Create validates the payload and persists a new player
func (s *Service) Create(ctx context.Context, params map[string]string) (*model.Player, error) {
	changes, err := StageFields(params, true)
	if err != nil {
		return nil, err
	}

	player := &model.Player{Banned: false}
	changes.Apply(player)
	ApplyDerivedStats(player)

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.Int64("player_id", int64(player.ID)),
		slog.Int("level", player.Level),
	)
	return player, nil
}

// Update applies a partial payload to an existing player.
// An empty payload leaves the player untouched and is not persisted.
func (s *Service) Update(ctx context.Context, rawID string, params map[string]string) (*model.Player, error) {
	changes, err := StageFields(params, false)
	if err != nil {
		return nil, err
	}

	player, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if changes.Empty() {
		return player, nil
	}

	changes.Apply(player)
	ApplyDerivedStats(player)

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player updated",
		slog.Int64("player_id", int64(player.ID)),
		slog.Int("fields", len(changes)),
	)
	return player, nil
}

// Delete removes a player by its raw identifier
func (s *Service) Delete(ctx context.Context, rawID string) error {
	player, err := s.Get(ctx, rawID)
	if err != nil {
		return err
	}

	if err := s.storage.DeletePlayer(ctx, player.ID); err != nil {
		return err
	}

	s.logger.Info("player deleted", slog.Int64("player_id", int64(player.ID)))
	return nil
}
