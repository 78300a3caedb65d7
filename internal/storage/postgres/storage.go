package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/sqlquery"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New migrates the schema and opens a connection pool
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if err := Migrate(cfg.URL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.ConnConfig.RuntimeParams["timezone"] = "UTC"
	if cfg.MaxConns > 0 {
		config.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// dialect renders PostgreSQL placeholders and pattern matching
type dialect struct{}

func (dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// Like disables the escape character so backslashes in patterns are literal
func (dialect) Like(column, placeholder string) string {
	return fmt.Sprintf("%s LIKE %s ESCAPE ''", column, placeholder)
}

func (dialect) LikeArg(pattern string) any { return pattern }

// Time clamps bounds into the birthday range so far-off instants stay within timestamptz
func (dialect) Time(t time.Time) any { return model.ClampBirthdayBound(t).UTC() }

func (dialect) TextOrder(column string) string { return column + ` COLLATE "C"` }

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	query := `
		INSERT INTO players (name, title, race, profession, birthday, banned, experience, level, until_next_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		player.Name,
		player.Title,
		string(player.Race),
		string(player.Profession),
		player.Birthday.UTC(),
		player.Banned,
		player.Experience,
		player.Level,
		player.UntilNextLevel,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	player.ID = model.PlayerID(id)
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	query := `
		UPDATE players
		SET name = $2, title = $3, race = $4, profession = $5, birthday = $6,
			banned = $7, experience = $8, level = $9, until_next_level = $10
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		int64(player.ID),
		player.Name,
		player.Title,
		string(player.Race),
		string(player.Profession),
		player.Birthday.UTC(),
		player.Banned,
		player.Experience,
		player.Level,
		player.UntilNextLevel,
	)
	if err != nil {
		return fmt.Errorf("failed to save player %d: %w", player.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	query := "SELECT " + sqlquery.Columns + " FROM players WHERE id = $1"

	player, err := scanPlayer(s.pool.QueryRow(ctx, query, int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM players WHERE id = $1", int64(id)); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}
	return nil
}

// Query operations

func (s *Storage) ListPlayers(ctx context.Context, page model.PageRequest) ([]*model.Player, error) {
	return s.FindPlayers(ctx, nil, page)
}

func (s *Storage) FindPlayers(ctx context.Context, filter model.Filter, page model.PageRequest) ([]*model.Player, error) {
	q := sqlquery.New(dialect{})
	if err := q.Filter(filter); err != nil {
		return nil, err
	}
	query := "SELECT " + sqlquery.Columns + " FROM players" + q.Where() + q.Page(page)

	rows, err := s.pool.Query(ctx, query, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int64, error) {
	return s.CountMatching(ctx, nil)
}

func (s *Storage) CountMatching(ctx context.Context, filter model.Filter) (int64, error) {
	q := sqlquery.New(dialect{})
	if err := q.Filter(filter); err != nil {
		return 0, err
	}

	var count int64
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM players"+q.Where(), q.Args()...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var (
		player           model.Player
		id               int64
		race, profession string
	)
	err := row.Scan(
		&id,
		&player.Name,
		&player.Title,
		&race,
		&profession,
		&player.Birthday,
		&player.Banned,
		&player.Experience,
		&player.Level,
		&player.UntilNextLevel,
	)
	if err != nil {
		return nil, err
	}

	player.ID = model.PlayerID(id)
	player.Race = model.Race(race)
	player.Profession = model.Profession(profession)
	player.Birthday = player.Birthday.UTC()
	return &player, nil
}
