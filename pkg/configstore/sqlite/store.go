package sqlite

import (
	"codeberg.org/miketth/inputswitch/pkg/configstore/sqlite/migrations"
	"context"
	"database/sql"
	"errors"
	"fmt"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"strconv"
)

const notificationsKey = "notifications_enabled"

// ConfigStore keeps the app -> input source mapping in a sqlite database.
// Nothing is cached, so changes made by other processes are seen at once.
type ConfigStore struct {
	db      *sql.DB
	querier *Queries
}

func NewConfigStore(filename string, log *zap.SugaredLogger) (*ConfigStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", filename))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &ConfigStore{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *ConfigStore) Close() error {
	return s.db.Close()
}

func (s *ConfigStore) GetInputSource(app string) (string, bool, error) {
	source, err := s.querier.GetInputSource(context.Background(), app)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("sqlite select: %w", err)
	}

	return source, true, nil
}

func (s *ConfigStore) SetInputSource(app string, source string) error {
	if err := s.querier.SetInputSource(context.Background(), SetInputSourceParams{
		App:    app,
		Source: source,
	}); err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}

	return nil
}

func (s *ConfigStore) RemoveApp(app string) error {
	if err := s.querier.RemoveApp(context.Background(), app); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}

	return nil
}

func (s *ConfigStore) ListApps() (map[string]string, error) {
	rows, err := s.querier.ListApps(context.Background())
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}

	ret := make(map[string]string, len(rows))
	for _, row := range rows {
		ret[row.App] = row.Source
	}

	return ret, nil
}

func (s *ConfigStore) NotificationsEnabled() (bool, error) {
	value, err := s.querier.GetSetting(context.Background(), notificationsKey)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("sqlite select: %w", err)
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", notificationsKey, err)
	}

	return enabled, nil
}

func (s *ConfigStore) SetNotificationsEnabled(enabled bool) error {
	if err := s.querier.SetSetting(context.Background(), SetSettingParams{
		Key:   notificationsKey,
		Value: strconv.FormatBool(enabled),
	}); err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}

	return nil
}
