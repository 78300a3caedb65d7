package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/playerregistry/internal/model"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/sqlquery"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Birthdays are stored as unix milliseconds.
type Storage struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path and migrates it
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// dialect renders SQLite placeholders; LIKE is ASCII case-insensitive there,
// so patterns are translated to the case-sensitive GLOB.
type dialect struct{}

func (dialect) Placeholder(int) string { return "?" }

func (dialect) Like(column, placeholder string) string {
	return column + " GLOB " + placeholder
}

func (dialect) LikeArg(pattern string) any { return likeToGlob(pattern) }

func (dialect) Time(t time.Time) any { return t.UnixMilli() }

func (dialect) TextOrder(column string) string { return column }

// likeToGlob rewrites a LIKE pattern as an equivalent GLOB pattern
func likeToGlob(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteByte('*')
		case '_':
			b.WriteByte('?')
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	query := `
		INSERT INTO players (name, title, race, profession, birthday, banned, experience, level, until_next_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		player.Name,
		player.Title,
		string(player.Race),
		string(player.Profession),
		player.Birthday.UnixMilli(),
		player.Banned,
		player.Experience,
		player.Level,
		player.UntilNextLevel,
	)
	if err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read player id: %w", err)
	}
	player.ID = model.PlayerID(id)
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	query := `
		UPDATE players
		SET name = ?, title = ?, race = ?, profession = ?, birthday = ?,
			banned = ?, experience = ?, level = ?, until_next_level = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		player.Name,
		player.Title,
		string(player.Race),
		string(player.Profession),
		player.Birthday.UnixMilli(),
		player.Banned,
		player.Experience,
		player.Level,
		player.UntilNextLevel,
		int64(player.ID),
	)
	if err != nil {
		return fmt.Errorf("update player %d: %w", player.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player %d: %w", player.ID, err)
	}
	if affected == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	query := "SELECT " + sqlquery.Columns + " FROM players WHERE id = ?"

	player, err := scanPlayer(s.db.QueryRowContext(ctx, query, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", int64(id)); err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
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

	rows, err := s.db.QueryContext(ctx, query, q.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
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
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM players"+q.Where(), q.Args()...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		player           model.Player
		id, birthday     int64
		race, profession string
	)
	err := row.Scan(
		&id,
		&player.Name,
		&player.Title,
		&race,
		&profession,
		&birthday,
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
	player.Birthday = time.UnixMilli(birthday).UTC()
	return &player, nil
}
