package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ===== Error model (equipment/movements と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

// ---- Clock ----
type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// 返却遅延レポートの固定ラベルと欠損値の表示
const (
	overdueStatusTag = "Atrasado" // UI側がこのラベルを前提にしている
	missingValue     = "N/A"
)

// ===== Service =====

type Service struct {
	store Store
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return newService(NewStore(db), realClock{})
}

func newService(store Store, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

// GET /stats
func (s *Service) Stats(ctx context.Context) (StatsResponse, error) {
	c, err := s.store.Counts(ctx, s.clock.Now())
	if err != nil {
		return StatsResponse{}, err
	}
	return StatsResponse{
		TotalEquipment: c.Total,
		Available:      c.Available,
		OnLoan:         c.OnLoan,
		Maintenance:    c.Maintenance,
		Overdue:        c.Overdue,
	}, nil
}

// GET /overdue/detailed
func (s *Service) OverdueDetailed(ctx context.Context) ([]OverdueDetail, error) {
	now := s.clock.Now()
	rows, err := s.store.ListOverdueLoans(ctx, now)
	if err != nil {
		return nil, err
	}

	out := make([]OverdueDetail, 0, len(rows))
	for _, r := range rows {
		d := OverdueDetail{
			ID:                 r.ID,
			Name:               r.Name,
			Model:              r.Model,
			BorrowerName:       missingValue,
			BorrowerEmail:      missingValue,
			ExpectedReturnDate: r.ExpectedReturnDate,
			// 丸めずに切り捨てた「丸一日」単位
			DaysOverdue: int(now.Sub(r.ExpectedReturnDate).Hours() / 24),
			Status:      overdueStatusTag,
		}
		if r.Borrower.Valid {
			d.BorrowerName = r.Borrower.String
		}
		if r.BorrowerEmail.Valid {
			d.BorrowerEmail = r.BorrowerEmail.String
		}
		out = append(out, d)
	}
	return out, nil
}
