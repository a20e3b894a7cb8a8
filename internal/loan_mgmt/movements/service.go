package movements

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/ZeusOff7/Emp-Equip/internal/loan_mgmt/equipment"
)

// ===== Error model (equipment/documents/settings と同型) =====
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

// EquipmentRegistry は機材側のステータス遷移窓口。
// 貸出関連フィールドを書くのはこの Service だけ、という所有権ルールの入口になる。
type EquipmentRegistry interface {
	Get(ctx context.Context, id string) (equipment.EquipmentResponse, error)
	MarkOnLoan(ctx context.Context, id, borrower, email string, delivery, expected *time.Time) error
	MarkAvailable(ctx context.Context, id string) error
	ListOverdue(ctx context.Context) ([]equipment.EquipmentResponse, error)
}

// ===== Service =====

type Service struct {
	store    Store
	registry EquipmentRegistry
	clock    Clock
	id       IDGen
}

func NewService(db *sql.DB, registry EquipmentRegistry) *Service {
	return newService(NewStore(db), registry, realClock{}, ulidGen{})
}

func newService(store Store, registry EquipmentRegistry, clock Clock, id IDGen) *Service {
	return &Service{store: store, registry: registry, clock: clock, id: id}
}

// POST /movements
//
// 機材側の UPDATE と movement の INSERT は別ステートメントで、共通のTxは張らない。
// 両者の間でプロセスが落ちると機材ステータスと履歴がずれるが、履歴側は
// 追記専用なので手で突き合わせて復旧できる運用を前提にしている。
func (s *Service) RecordMovement(ctx context.Context, in CreateMovementRequest) (MovementResponse, error) {
	mt := MovementType(in.MovementType)
	if !mt.Valid() {
		return MovementResponse{}, ErrInvalid("movement_type must be check_out or check_in")
	}

	eq, err := s.registry.Get(ctx, in.EquipmentID)
	if err != nil {
		return MovementResponse{}, mapRegistryErr(err)
	}

	now := s.clock.Now()
	m := Movement{
		ID:            s.id.NewULID(now),
		EquipmentID:   in.EquipmentID,
		EquipmentName: eq.Name, // イベント時点の名称を固定で残す
		MovementType:  mt,
		BorrowerName:  in.BorrowerName,
		BorrowerEmail: in.BorrowerEmail,
		Notes:         in.Notes,
		Timestamp:     now,
	}

	switch mt {
	case TypeCheckOut:
		m.DeliveryDate = in.DeliveryDate
		m.ExpectedReturnDate = in.ExpectedReturnDate
		if err := s.registry.MarkOnLoan(ctx, in.EquipmentID, in.BorrowerName, in.BorrowerEmail, in.DeliveryDate, in.ExpectedReturnDate); err != nil {
			return MovementResponse{}, mapRegistryErr(err)
		}
	case TypeCheckIn:
		ret := now
		m.ActualReturnDate = &ret
		if err := s.registry.MarkAvailable(ctx, in.EquipmentID); err != nil {
			return MovementResponse{}, mapRegistryErr(err)
		}
	}

	if err := s.store.Insert(ctx, &m); err != nil {
		return MovementResponse{}, err
	}
	return m.toDTO(), nil
}

// GET /movements
func (s *Service) ListMovements(ctx context.Context, f ListFilter) ([]MovementResponse, error) {
	if f.MovementType != "" && !MovementType(f.MovementType).Valid() {
		return nil, ErrInvalid("movement_type must be check_out or check_in")
	}
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]MovementResponse, 0, len(items))
	for _, m := range items {
		out = append(out, m.toDTO())
	}
	return out, nil
}

// GET /movements/overdue
func (s *Service) ListOverdue(ctx context.Context) ([]equipment.EquipmentResponse, error) {
	items, err := s.registry.ListOverdue(ctx)
	if err != nil {
		return nil, mapRegistryErr(err)
	}
	return items, nil
}

// 機材側のエラーモデルをこちらのコード体系に写し替える
func mapRegistryErr(err error) error {
	var ae *equipment.APIError
	if errors.As(err, &ae) {
		return &APIError{Code: Code(ae.Code), Message: ae.Message}
	}
	return err
}
