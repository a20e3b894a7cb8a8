package equipment

import (
	"database/sql"
	"time"
)

// 機材ステータス（DB上は文字列だが、API境界では閉じた語彙として扱う）
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusOnLoan      Status = "On Loan"
	StatusMaintenance Status = "Maintenance"
	StatusRetired     Status = "Retired"

	// 一覧フィルタ用の番兵値（全ステータス対象）
	StatusFilterAll = "All"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOnLoan, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// DB行に対応（スキャン用）
type equipmentRow struct {
	ID                   string
	Name                 string
	Model                string
	SerialNumber         sql.NullString
	Status               string
	CurrentBorrower      sql.NullString
	CurrentBorrowerEmail sql.NullString
	DeliveryDate         sql.NullTime
	ExpectedReturnDate   sql.NullTime
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Service ↔ Store で使うモデル
type Equipment struct {
	ID                   string
	Name                 string
	Model                string
	SerialNumber         *string
	Status               Status
	CurrentBorrower      *string
	CurrentBorrowerEmail *string
	DeliveryDate         *time.Time
	ExpectedReturnDate   *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (r equipmentRow) toModel() Equipment {
	m := Equipment{
		ID:        r.ID,
		Name:      r.Name,
		Model:     r.Model,
		Status:    Status(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.SerialNumber.Valid {
		v := r.SerialNumber.String
		m.SerialNumber = &v
	}
	if r.CurrentBorrower.Valid {
		v := r.CurrentBorrower.String
		m.CurrentBorrower = &v
	}
	if r.CurrentBorrowerEmail.Valid {
		v := r.CurrentBorrowerEmail.String
		m.CurrentBorrowerEmail = &v
	}
	if r.DeliveryDate.Valid {
		v := r.DeliveryDate.Time.UTC()
		m.DeliveryDate = &v
	}
	if r.ExpectedReturnDate.Valid {
		v := r.ExpectedReturnDate.Time.UTC()
		m.ExpectedReturnDate = &v
	}
	return m
}

func (m Equipment) toDTO() EquipmentResponse {
	return EquipmentResponse{
		ID:                   m.ID,
		Name:                 m.Name,
		Model:                m.Model,
		SerialNumber:         m.SerialNumber,
		Status:               string(m.Status),
		CurrentBorrower:      m.CurrentBorrower,
		CurrentBorrowerEmail: m.CurrentBorrowerEmail,
		DeliveryDate:         m.DeliveryDate,
		ExpectedReturnDate:   m.ExpectedReturnDate,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// 一覧取得用の検索条件
type ListFilter struct {
	Status string // "" または "All" なら全ステータス
	Search string // name / model / serial_number の部分一致（大文字小文字無視）
}
