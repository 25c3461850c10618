package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/escaperoom/internal/telemetry"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps both documents as rows of a single SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, log *zap.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if log == nil {
		log = zap.NewNop()
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
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log.Named("store")}, nil
}

func (s *SQLiteStore) LoadAccounts(ctx context.Context) Accounts {
	return DecodeAccounts(s.get(ctx, DocAccounts), s.log)
}

func (s *SQLiteStore) SaveAccounts(ctx context.Context, accounts Accounts) error {
	data, err := EncodeAccounts(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	return s.put(ctx, DocAccounts, data)
}

func (s *SQLiteStore) LoadGameStates(ctx context.Context) GameStates {
	return DecodeGameStates(s.get(ctx, DocGameStates), s.log)
}

func (s *SQLiteStore) SaveGameStates(ctx context.Context, states GameStates) error {
	data, err := EncodeGameStates(states)
	if err != nil {
		return fmt.Errorf("encode game states: %w", err)
	}
	return s.put(ctx, DocGameStates, data)
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) get(ctx context.Context, name string) []byte {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("cannot read document, starting empty", zap.String("document", name), zap.Error(err))
		}
		return nil
	}
	return body
}

func (s *SQLiteStore) put(ctx context.Context, name string, body []byte) error {
	ctx, span := telemetry.Tracer("store").Start(ctx, "store.write")
	span.SetAttributes(attribute.String("store.document", name), attribute.Int("store.bytes", len(body)))
	defer span.End()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		name, body, time.Now().UnixMilli(),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
