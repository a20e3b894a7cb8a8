package reports

import (
	"context"
	"database/sql"
	"time"

	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/equipment"
	platformdb "github.com/ZeusOff7/Emp-Equip/internal/platform/db"
)

// 集計の元ネタ。毎回その場でクエリする（キャッシュしない）。
type Counts struct {
	Total       int64
	Available   int64
	OnLoan      int64
	Maintenance int64
	Overdue     int64
}

type overdueRow struct {
	ID                 string
	Name               string
	Model              string
	Borrower           sql.NullString
	BorrowerEmail      sql.NullString
	ExpectedReturnDate time.Time
}

type Store interface {
	Counts(ctx context.Context, now time.Time) (Counts, error)
	ListOverdueLoans(ctx context.Context, now time.Time) ([]overdueRow, error)
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store { return &sqlStore{db: db} }

// Counts は件数系をまとめて取る。個別COUNTを読み取り専用Txで束ねて、
// 全カウントが同一時点のスナップショットになるようにする。
func (s *sqlStore) Counts(ctx context.Context, now time.Time) (Counts, error) {
	var c Counts
	err := platformdb.ReadOnly(ctx, s.db, func(ctx context.Context, tx platformdb.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM equipment`).Scan(&c.Total); err != nil {
			return err
		}
		const byStatus = `SELECT COUNT(*) FROM equipment WHERE status = ?`
		if err := tx.QueryRowContext(ctx, byStatus, string(equipment.StatusAvailable)).Scan(&c.Available); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, byStatus, string(equipment.StatusOnLoan)).Scan(&c.OnLoan); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, byStatus, string(equipment.StatusMaintenance)).Scan(&c.Maintenance); err != nil {
			return err
		}
		const overdue = `SELECT COUNT(*) FROM equipment WHERE status = ? AND expected_return_date < ?`
		return tx.QueryRowContext(ctx, overdue, string(equipment.StatusOnLoan), now).Scan(&c.Overdue)
	})
	if err != nil {
		return Counts{}, err
	}
	return c, nil
}

func (s *sqlStore) ListOverdueLoans(ctx context.Context, now time.Time) ([]overdueRow, error) {
	const q = `
	SELECT id, name, model, current_borrower, current_borrower_email, expected_return_date
	FROM equipment
	WHERE status = ? AND expected_return_date < ?
	ORDER BY expected_return_date ASC`

	rows, err := s.db.QueryContext(ctx, q, string(equipment.StatusOnLoan), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []overdueRow
	for rows.Next() {
		var r overdueRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Model, &r.Borrower, &r.BorrowerEmail, &r.ExpectedReturnDate); err != nil {
			return nil, err
		}
		r.ExpectedReturnDate = r.ExpectedReturnDate.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
