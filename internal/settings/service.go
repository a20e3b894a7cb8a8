package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ===== Error model (equipment/movements/documents と同型) =====
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
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
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

// 通知ジョブ側が参照する想定の既定チェック間隔。
// このサーバ自身は値を読んで動くことはない（書き込み口を提供するだけ）。
const defaultCheckIntervalHours = 1

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

// GET /settings
// 未保存ならデフォルト値を返す（この時点ではまだ行は作らない）
func (s *Service) Get(ctx context.Context) (SettingsResponse, error) {
	m, err := s.store.Get(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return SettingsResponse{
				ID:                 settingsID,
				CheckIntervalHours: defaultCheckIntervalHours,
				UpdatedAt:          s.clock.Now(),
			}, nil
		}
		return SettingsResponse{}, err
	}
	return SettingsResponse{
		ID:                 m.ID,
		CheckIntervalHours: m.CheckIntervalHours,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// PUT /settings
func (s *Service) Update(ctx context.Context, in UpdateSettingsRequest) (SettingsResponse, error) {
	if in.CheckIntervalHours < 1 {
		return SettingsResponse{}, ErrInvalid("check_interval_hours must be >= 1")
	}

	m := Settings{
		ID:                 settingsID,
		CheckIntervalHours: in.CheckIntervalHours,
		UpdatedAt:          s.clock.Now(),
	}
	if err := s.store.Upsert(ctx, &m); err != nil {
		return SettingsResponse{}, err
	}
	return SettingsResponse{
		ID:                 m.ID,
		CheckIntervalHours: m.CheckIntervalHours,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
