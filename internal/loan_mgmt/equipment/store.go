package equipment

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Store は equipment テーブルへのアクセスを抽象化する。
// 本物は sqlStore、テストではインメモリのフェイクを差し込む。
type Store interface {
	Insert(ctx context.Context, m *Equipment) error
	GetByID(ctx context.Context, id string) (*Equipment, error)
	List(ctx context.Context, f ListFilter) ([]Equipment, error)
	UpdateFields(ctx context.Context, id string, in UpdateEquipmentRequest, updatedAt time.Time) error
	Delete(ctx context.Context, id string) (bool, error)

	// 貸出関連フィールドの書き込みは Movement 側からのみ呼ばれる
	MarkOnLoan(ctx context.Context, id, borrower, email string, delivery, expected *time.Time, updatedAt time.Time) error
	MarkAvailable(ctx context.Context, id string, updatedAt time.Time) error
	ListOverdue(ctx context.Context, now time.Time) ([]Equipment, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

const equipmentColumns = `
	id, name, model, serial_number, status,
	current_borrower, current_borrower_email,
	delivery_date, expected_return_date,
	created_at, updated_at`

func scanEquipment(sc interface{ Scan(...any) error }) (Equipment, error) {
	var r equipmentRow
	err := sc.Scan(
		&r.ID, &r.Name, &r.Model, &r.SerialNumber, &r.Status,
		&r.CurrentBorrower, &r.CurrentBorrowerEmail,
		&r.DeliveryDate, &r.ExpectedReturnDate,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return Equipment{}, err
	}
	return r.toModel(), nil
}

func (s *sqlStore) Insert(ctx context.Context, m *Equipment) error {
	const q = `
	INSERT INTO equipment
	(id, name, model, serial_number, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		m.ID, m.Name, m.Model, strOrNil(m.SerialNumber), string(m.Status),
		m.CreatedAt, m.UpdatedAt,
	)
	return err
}

func (s *sqlStore) GetByID(ctx context.Context, id string) (*Equipment, error) {
	q := `SELECT` + equipmentColumns + ` FROM equipment WHERE id = ?`
	m, err := scanEquipment(s.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *sqlStore) List(ctx context.Context, f ListFilter) ([]Equipment, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT` + equipmentColumns + ` FROM equipment WHERE 1=1`)

	args := []any{}
	if f.Status != "" && f.Status != StatusFilterAll {
		sb.WriteString(` AND status = ?`)
		args = append(args, f.Status)
	}
	if f.Search != "" {
		sb.WriteString(` AND (LOWER(name) LIKE ? OR LOWER(model) LIKE ? OR LOWER(serial_number) LIKE ?)`)
		pat := "%" + strings.ToLower(f.Search) + "%"
		args = append(args, pat, pat, pat)
	}
	sb.WriteString(` ORDER BY created_at DESC LIMIT ?`)
	args = append(args, MaxListRows)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Equipment
	for rows.Next() {
		m, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *sqlStore) UpdateFields(ctx context.Context, id string, in UpdateEquipmentRequest, updatedAt time.Time) error {
	sb := strings.Builder{}
	sb.WriteString(`UPDATE equipment SET updated_at = ?`)
	args := []any{updatedAt}

	if in.Name != nil {
		sb.WriteString(`, name = ?`)
		args = append(args, *in.Name)
	}
	if in.Model != nil {
		sb.WriteString(`, model = ?`)
		args = append(args, *in.Model)
	}
	if in.SerialNumber != nil {
		sb.WriteString(`, serial_number = ?`)
		args = append(args, *in.SerialNumber)
	}
	if in.Status != nil {
		sb.WriteString(`, status = ?`)
		args = append(args, *in.Status)
	}
	sb.WriteString(` WHERE id = ?`)
	args = append(args, id)

	_, err := s.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (s *sqlStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM equipment WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *sqlStore) MarkOnLoan(ctx context.Context, id, borrower, email string, delivery, expected *time.Time, updatedAt time.Time) error {
	const q = `
	UPDATE equipment SET
		status = ?, current_borrower = ?, current_borrower_email = ?,
		delivery_date = ?, expected_return_date = ?, updated_at = ?
	WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q,
		string(StatusOnLoan), borrower, email,
		timeOrNil(delivery), timeOrNil(expected), updatedAt, id,
	)
	return err
}

func (s *sqlStore) MarkAvailable(ctx context.Context, id string, updatedAt time.Time) error {
	const q = `
	UPDATE equipment SET
		status = ?, current_borrower = NULL, current_borrower_email = NULL,
		delivery_date = NULL, expected_return_date = NULL, updated_at = ?
	WHERE id = ?`
	_, err := s.db.ExecContext(ctx, q, string(StatusAvailable), updatedAt, id)
	return err
}

func (s *sqlStore) ListOverdue(ctx context.Context, now time.Time) ([]Equipment, error) {
	q := `SELECT` + equipmentColumns + `
	FROM equipment
	WHERE status = ? AND expected_return_date < ?
	ORDER BY expected_return_date ASC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, string(StatusOnLoan), now, MaxListRows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Equipment
	for rows.Next() {
		m, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
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
