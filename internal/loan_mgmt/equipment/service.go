package equipment

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// ===== Error model (movements/documents/settings と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

// ---- Clock & ID ----
type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ===== Service =====

type Service struct {
	store Store
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return newService(NewStore(db), realClock{}, ulidGen{})
}

func newService(store Store, clock Clock, id IDGen) *Service {
	return &Service{store: store, clock: clock, id: id}
}

// POST /equipment
func (s *Service) Create(ctx context.Context, in CreateEquipmentRequest) (EquipmentResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Model) == "" {
		return EquipmentResponse{}, ErrInvalid("name and model are required")
	}

	st := StatusAvailable
	if in.Status != nil && *in.Status != "" {
		st = Status(*in.Status)
		if !st.Valid() {
			return EquipmentResponse{}, ErrInvalid("invalid status value")
		}
	}

	now := s.clock.Now()
	m := Equipment{
		ID:        s.id.NewULID(now),
		Name:      in.Name,
		Model:     in.Model,
		Status:    st,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.SerialNumber != nil && *in.SerialNumber != "" {
		m.SerialNumber = in.SerialNumber
	}

	if err := s.store.Insert(ctx, &m); err != nil {
		return EquipmentResponse{}, err
	}
	return m.toDTO(), nil
}

// GET /equipment/:equipment_id
func (s *Service) Get(ctx context.Context, id string) (EquipmentResponse, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return EquipmentResponse{}, ErrNotFound("equipment not found")
		}
		return EquipmentResponse{}, err
	}
	return m.toDTO(), nil
}

// GET /equipment?status=&search=
func (s *Service) List(ctx context.Context, f ListFilter) ([]EquipmentResponse, error) {
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]EquipmentResponse, 0, len(items))
	for _, m := range items {
		out = append(out, m.toDTO())
	}
	return out, nil
}

// PUT /equipment/:equipment_id
// 渡されたフィールドだけをマージする。status は語彙チェックのみで、
// 遷移の妥当性は見ない（貸出フローを通さない直接編集を許す運用のため）。
func (s *Service) Update(ctx context.Context, id string, in UpdateEquipmentRequest) (EquipmentResponse, error) {
	if in.Status != nil && !Status(*in.Status).Valid() {
		return EquipmentResponse{}, ErrInvalid("invalid status value")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return EquipmentResponse{}, ErrInvalid("name must not be blank")
	}
	if in.Model != nil && strings.TrimSpace(*in.Model) == "" {
		return EquipmentResponse{}, ErrInvalid("model must not be blank")
	}

	if _, err := s.store.GetByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return EquipmentResponse{}, ErrNotFound("equipment not found")
		}
		return EquipmentResponse{}, err
	}

	if err := s.store.UpdateFields(ctx, id, in, s.clock.Now()); err != nil {
		return EquipmentResponse{}, err
	}

	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return EquipmentResponse{}, err
	}
	return m.toDTO(), nil
}

// DELETE /equipment/:equipment_id
// movements / documents への参照は消さない（孤児レコード許容）。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound("equipment not found")
	}
	return nil
}

// ===== 貸出フローからの呼び出し（Movement Recorder 専用） =====

// MarkOnLoan は貸出確定時のステータス遷移。borrower と日付系をまとめて書く。
func (s *Service) MarkOnLoan(ctx context.Context, id, borrower, email string, delivery, expected *time.Time) error {
	return s.store.MarkOnLoan(ctx, id, borrower, email, delivery, expected, s.clock.Now())
}

// MarkAvailable は返却確定時のステータス遷移。貸出関連フィールドを一括クリアする。
func (s *Service) MarkAvailable(ctx context.Context, id string) error {
	return s.store.MarkAvailable(ctx, id, s.clock.Now())
}

// ListOverdue は返却期限超過（On Loan かつ expected_return_date < now）の機材一覧。
func (s *Service) ListOverdue(ctx context.Context) ([]EquipmentResponse, error) {
	items, err := s.store.ListOverdue(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	out := make([]EquipmentResponse, 0, len(items))
	for _, m := range items {
		out = append(out, m.toDTO())
	}
	return out, nil
}
