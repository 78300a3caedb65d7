package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Players are stored as JSON blobs; a sorted set scored by ID indexes them.
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	id, err := s.client.Incr(ctx, s.keys.sequence()).Result()
	if err != nil {
		return err
	}
	player.ID = model.PlayerID(id)

	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Save entity and index entry together
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keys.player(player.ID), data, 0)
	pipe.ZAdd(ctx, s.keys.index(), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// XX: only overwrite an existing player
	ok, err := s.client.SetXX(ctx, s.keys.player(player.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, s.keys.player(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keys.player(id))
	pipe.ZRem(ctx, s.keys.index(), strconv.FormatInt(int64(id), 10))
	_, err := pipe.Exec(ctx)
	return err
}

// Query operations

func (s *Storage) ListPlayers(ctx context.Context, page model.PageRequest) ([]*model.Player, error) {
	// The index is already ordered by ID, so that order can be paged in Redis
	if page.Order.Field() == model.FieldID {
		start := int64(page.Offset())
		stop := start + int64(page.Size) - 1
		ids, err := s.client.ZRange(ctx, s.keys.index(), start, stop).Result()
		if err != nil {
			return nil, err
		}
		return s.load(ctx, ids)
	}
	return s.FindPlayers(ctx, nil, page)
}

func (s *Storage) FindPlayers(ctx context.Context, filter model.Filter, page model.PageRequest) ([]*model.Player, error) {
	players, err := s.matching(ctx, filter)
	if err != nil {
		return nil, err
	}
	return page.Window(players), nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int64, error) {
	return s.client.ZCard(ctx, s.keys.index()).Result()
}

func (s *Storage) CountMatching(ctx context.Context, filter model.Filter) (int64, error) {
	players, err := s.matching(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(players)), nil
}

// matching loads every indexed player and keeps those satisfying the filter
func (s *Storage) matching(ctx context.Context, filter model.Filter) ([]*model.Player, error) {
	ids, err := s.client.ZRange(ctx, s.keys.index(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	players, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := players[:0]
	for _, p := range players {
		if filter.Matches(p) {
			result = append(result, p)
		}
	}
	return result, nil
}

// load fetches players by their index members in one MGET, preserving order
func (s *Storage) load(ctx context.Context, ids []string) ([]*model.Player, error) {
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	playerKeys := make([]string, len(ids))
	for i, member := range ids {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt index member %q: %w", member, err)
		}
		playerKeys[i] = s.keys.player(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, playerKeys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		raw, ok := val.(string)
		if !ok {
			continue // Deleted between ZRANGE and MGET
		}
		var player model.Player
		if err := json.Unmarshal([]byte(raw), &player); err != nil {
			return nil, err
		}
		players = append(players, &player)
	}
	return players, nil
}
