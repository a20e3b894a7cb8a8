package movements

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Store は movements テーブルへのアクセスを抽象化する（追記と参照のみ。UPDATE は存在しない）。
type Store interface {
	Insert(ctx context.Context, m *Movement) error
	List(ctx context.Context, f ListFilter) ([]Movement, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

func (s *sqlStore) Insert(ctx context.Context, m *Movement) error {
	const q = `
	INSERT INTO movements
	(id, equipment_id, equipment_name, movement_type, borrower_name, borrower_email,
	 delivery_date, expected_return_date, actual_return_date, notes, timestamp)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		m.ID, m.EquipmentID, m.EquipmentName, string(m.MovementType),
		m.BorrowerName, m.BorrowerEmail,
		timeOrNil(m.DeliveryDate), timeOrNil(m.ExpectedReturnDate), timeOrNil(m.ActualReturnDate),
		strOrNil(m.Notes), m.Timestamp,
	)
	return err
}

func (s *sqlStore) List(ctx context.Context, f ListFilter) ([]Movement, error) {
	sb := strings.Builder{}
	sb.WriteString(`
	SELECT id, equipment_id, equipment_name, movement_type, borrower_name, borrower_email,
	       delivery_date, expected_return_date, actual_return_date, notes, timestamp
	FROM movements WHERE 1=1`)

	args := []any{}
	if f.EquipmentID != "" {
		sb.WriteString(` AND equipment_id = ?`)
		args = append(args, f.EquipmentID)
	}
	if f.MovementType != "" {
		sb.WriteString(` AND movement_type = ?`)
		args = append(args, f.MovementType)
	}
	if f.Start != nil {
		sb.WriteString(` AND timestamp >= ?`)
		args = append(args, *f.Start)
	}
	if f.End != nil {
		sb.WriteString(` AND timestamp <= ?`)
		args = append(args, *f.End)
	}
	sb.WriteString(` ORDER BY timestamp DESC LIMIT ?`)
	args = append(args, MaxListRows)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var r movementRow
		if err := rows.Scan(
			&r.ID, &r.EquipmentID, &r.EquipmentName, &r.MovementType,
			&r.BorrowerName, &r.BorrowerEmail,
			&r.DeliveryDate, &r.ExpectedReturnDate, &r.ActualReturnDate,
			&r.Notes, &r.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}

// ---- helpers ----

func strOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func timeOrNil(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}
