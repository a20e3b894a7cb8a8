package documents

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"
)

// ===== Error model (equipment/movements/settings と同型) =====
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
	blobs BlobStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB, blobs BlobStore) *Service {
	return newService(NewStore(db), blobs, realClock{}, ulidGen{})
}

func newService(store Store, blobs BlobStore, clock Clock, id IDGen) *Service {
	return &Service{store: store, blobs: blobs, clock: clock, id: id}
}

// POST /documents/upload
func (s *Service) Upload(ctx context.Context, in UploadInput) (UploadResponse, error) {
	if strings.TrimSpace(in.EquipmentID) == "" {
		return UploadResponse{}, ErrInvalid("equipment_id is required")
	}
	if !strings.HasSuffix(in.OriginalFilename, acceptedExt) {
		return UploadResponse{}, ErrInvalid("only PDF files are allowed")
	}
	if in.Size > MaxUploadBytes {
		return UploadResponse{}, ErrInvalid("file size must be less than 50MB")
	}

	now := s.clock.Now()
	storedName := s.id.NewULID(now) + acceptedExt

	path, size, err := s.blobs.Save(storedName, in.Src)
	if err != nil {
		return UploadResponse{}, err
	}

	m := Document{
		ID:               s.id.NewULID(now),
		EquipmentID:      in.EquipmentID,
		MovementID:       in.MovementID,
		Filename:         storedName,
		OriginalFilename: in.OriginalFilename,
		FilePath:         path,
		FileSize:         size,
		UploadedAt:       now,
	}
	if err := s.store.Insert(ctx, &m); err != nil {
		// メタデータが書けなければ実体も残さない
		_ = s.blobs.Remove(path)
		return UploadResponse{}, err
	}

	return UploadResponse{
		ID:         m.ID,
		Filename:   m.OriginalFilename,
		FileSize:   m.FileSize,
		UploadedAt: m.UploadedAt,
	}, nil
}

// GET /documents/equipment/:equipment_id
func (s *Service) ListForEquipment(ctx context.Context, equipmentID string) ([]DocumentResponse, error) {
	items, err := s.store.ListByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentResponse, 0, len(items))
	for _, m := range items {
		out = append(out, m.toDTO())
	}
	return out, nil
}

// GET /documents/:document_id/download
// メタデータ欠落と実体欠落は別メッセージの NotFound として区別する
// （実体が消えていても勝手に作り直したりはしない）。
func (s *Service) Download(ctx context.Context, id string) (path, originalFilename string, err error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", ErrNotFound("document not found")
		}
		return "", "", err
	}
	if err := s.blobs.Stat(m.FilePath); err != nil {
		return "", "", ErrNotFound("file not found on disk")
	}
	return m.FilePath, m.OriginalFilename, nil
}

// DELETE /documents/:document_id
func (s *Service) Delete(ctx context.Context, id string) error {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("document not found")
		}
		return err
	}

	// 実体削除はベストエフォート。既に無い場合は何もしない。
	if err := s.blobs.Remove(m.FilePath); err != nil {
		log.Printf("failed to remove blob %s: %v", m.FilePath, err)
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound("document not found")
	}
	return nil
}
