package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/escaperoom/internal/telemetry"
)

// FileStore keeps each document in its own JSON file.
type FileStore struct {
	accountsPath   string
	gameStatesPath string
	log            *zap.Logger
}

// NewFileStore returns a store over the two paths. The files need not exist.
func NewFileStore(accountsPath, gameStatesPath string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{
		accountsPath:   accountsPath,
		gameStatesPath: gameStatesPath,
		log:            log.Named("store"),
	}
}

func (s *FileStore) LoadAccounts(ctx context.Context) Accounts {
	return DecodeAccounts(s.read(s.accountsPath), s.log)
}

func (s *FileStore) SaveAccounts(ctx context.Context, accounts Accounts) error {
	data, err := EncodeAccounts(accounts)
	if err != nil {
		return fmt.Errorf("encode accounts: %w", err)
	}
	return s.write(ctx, s.accountsPath, data)
}

func (s *FileStore) LoadGameStates(ctx context.Context) GameStates {
	return DecodeGameStates(s.read(s.gameStatesPath), s.log)
}

func (s *FileStore) SaveGameStates(ctx context.Context, states GameStates) error {
	data, err := EncodeGameStates(states)
	if err != nil {
		return fmt.Errorf("encode game states: %w", err)
	}
	return s.write(ctx, s.gameStatesPath, data)
}

// Close is a no-op; files are not held open between calls.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("cannot read document, starting empty", zap.String("path", path), zap.Error(err))
		}
		return nil
	}
	return data
}

// write replaces path atomically by writing a sibling temp file and renaming
// it over the original.
func (s *FileStore) write(ctx context.Context, path string, data []byte) (err error) {
	_, span := telemetry.Tracer("store").Start(ctx, "store.write")
	span.SetAttributes(attribute.String("store.path", path), attribute.Int("store.bytes", len(data)))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
