package documents

import (
	"context"
	"database/sql"
)

// Store は documents テーブル（メタデータ）へのアクセスを抽象化する。
type Store interface {
	Insert(ctx context.Context, m *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByEquipment(ctx context.Context, equipmentID string) ([]Document, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

const documentColumns = `
	id, equipment_id, movement_id, filename, original_filename,
	file_path, file_size, uploaded_at`

func (s *sqlStore) Insert(ctx context.Context, m *Document) error {
	const q = `
	INSERT INTO documents
	(id, equipment_id, movement_id, filename, original_filename, file_path, file_size, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		m.ID, m.EquipmentID, strOrNil(m.MovementID),
		m.Filename, m.OriginalFilename, m.FilePath, m.FileSize, m.UploadedAt,
	)
	return err
}

func (s *sqlStore) GetByID(ctx context.Context, id string) (*Document, error) {
	q := `SELECT` + documentColumns + ` FROM documents WHERE id = ?`
	var r documentRow
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.ID, &r.EquipmentID, &r.MovementID, &r.Filename, &r.OriginalFilename,
		&r.FilePath, &r.FileSize, &r.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	m := r.toModel()
	return &m, nil
}

func (s *sqlStore) ListByEquipment(ctx context.Context, equipmentID string) ([]Document, error) {
	q := `SELECT` + documentColumns + ` FROM documents WHERE equipment_id = ? ORDER BY uploaded_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, equipmentID, MaxListRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var r documentRow
		if err := rows.Scan(
			&r.ID, &r.EquipmentID, &r.MovementID, &r.Filename, &r.OriginalFilename,
			&r.FilePath, &r.FileSize, &r.UploadedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

func (s *sqlStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func strOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
