package settings

import (
	"context"
	"database/sql"
	"time"
)

// 設定は固定IDの1行だけを使うシングルトン
const settingsID = "system_settings"

type Settings struct {
	ID                 string
	CheckIntervalHours int
	UpdatedAt          time.Time
}

type Store interface {
	Get(ctx context.Context) (*Settings, error)
	Upsert(ctx context.Context, m *Settings) error
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Get(ctx context.Context) (*Settings, error) {
	const q = `SELECT id, check_interval_hours, updated_at FROM settings WHERE id = ?`
	var m Settings
	if err := s.db.QueryRowContext(ctx, q, settingsID).Scan(&m.ID, &m.CheckIntervalHours, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.UpdatedAt = m.UpdatedAt.UTC()
	return &m, nil
}

func (s *sqlStore) Upsert(ctx context.Context, m *Settings) error {
	const q = `
	INSERT INTO settings (id, check_interval_hours, updated_at)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE check_interval_hours = VALUES(check_interval_hours), updated_at = VALUES(updated_at)`
	_, err := s.db.ExecContext(ctx, q, settingsID, m.CheckIntervalHours, m.UpdatedAt)
	return err
}
