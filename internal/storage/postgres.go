package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/pixil98/go-realm/internal/game"
)

// PostgresPlayerStore implements the PlayerStore port against the players
// table. Position and inventory live in jsonb columns, mirroring the
// relational schema the session core is otherwise decoupled from.
type PostgresPlayerStore struct {
	db *sql.DB
}

// NewPostgresPlayerStore opens and pings a Postgres connection.
func NewPostgresPlayerStore(dsn string) (*PostgresPlayerStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresPlayerStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresPlayerStore) Close() error {
	return s.db.Close()
}

const playerColumns = `id, username, password, role, guild_id, health, stamina,
	level, experience, position, rotation, inventory, last_online`

func (s *PostgresPlayerStore) FindPlayerByID(ctx context.Context, id int64) (*PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	return scanPlayer(row)
}

func (s *PostgresPlayerStore) FindPlayerByUsername(ctx context.Context, username string) (*PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE lower(username) = lower($1)`, username)
	return scanPlayer(row)
}

func (s *PostgresPlayerStore) SavePlayerFields(ctx context.Context, id int64, fields Fields) error {
	set := make([]string, 0, 8)
	args := make([]any, 0, 9)

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Position != nil {
		data, err := json.Marshal(fields.Position)
		if err != nil {
			return fmt.Errorf("marshalling position: %w", err)
		}
		add("position", data)
	}
	if fields.Rotation != nil {
		add("rotation", *fields.Rotation)
	}
	if fields.Health != nil {
		add("health", *fields.Health)
	}
	if fields.Stamina != nil {
		add("stamina", *fields.Stamina)
	}
	if fields.Level != nil {
		add("level", *fields.Level)
	}
	if fields.Experience != nil {
		add("experience", *fields.Experience)
	}
	if fields.Inventory != nil {
		data, err := json.Marshal(fields.Inventory)
		if err != nil {
			return fmt.Errorf("marshalling inventory: %w", err)
		}
		add("inventory", data)
	}
	if fields.LastOnline != nil {
		add("last_online", *fields.LastOnline)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE players SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating player %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPlayer(row *sql.Row) (*PlayerRecord, error) {
	var (
		record        PlayerRecord
		role          sql.NullInt64
		guildID       sql.NullString
		positionJSON  []byte
		inventoryJSON []byte
		lastOnline    sql.NullTime
	)

	err := row.Scan(&record.ID, &record.Username, &record.PasswordHash,
		&role, &guildID, &record.Health, &record.Stamina,
		&record.Level, &record.Experience, &positionJSON, &record.Rotation,
		&inventoryJSON, &lastOnline)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning player row: %w", err)
	}

	// A NULL role column means a player, not the numerically-zero admin role.
	if role.Valid {
		record.Role = game.Role(role.Int64)
	} else {
		record.Role = game.RolePlayer
	}
	if guildID.Valid {
		record.GuildID = guildID.String
	}
	if lastOnline.Valid {
		t := lastOnline.Time
		record.LastOnline = &t
	}
	if len(positionJSON) > 0 {
		if err := json.Unmarshal(positionJSON, &record.Position); err != nil {
			return nil, fmt.Errorf("decoding position: %w", err)
		}
	}
	if len(inventoryJSON) > 0 {
		if err := json.Unmarshal(inventoryJSON, &record.Inventory); err != nil {
			return nil, fmt.Errorf("decoding inventory: %w", err)
		}
	}

	return &record, nil
}
