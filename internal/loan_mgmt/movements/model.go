package movements

import (
	"database/sql"
	"time"
)

// 入出庫イベント種別（閉じた語彙。未知の値は境界で弾く）
type MovementType string

const (
	TypeCheckOut MovementType = "check_out"
	TypeCheckIn  MovementType = "check_in"
)

func (t MovementType) Valid() bool {
	return t == TypeCheckOut || t == TypeCheckIn
}

// DB行に対応（スキャン用）
type movementRow struct {
	ID                 string
	EquipmentID        string
	EquipmentName      string
	MovementType       string
	BorrowerName       string
	BorrowerEmail      string
	DeliveryDate       sql.NullTime
	ExpectedReturnDate sql.NullTime
	ActualReturnDate   sql.NullTime
	Notes              sql.NullString
	Timestamp          time.Time
}

// Movement は確定後に書き換えない監査レコード
type Movement struct {
	ID                 string
	EquipmentID        string
	EquipmentName      string
	MovementType       MovementType
	BorrowerName       string
	BorrowerEmail      string
	DeliveryDate       *time.Time
	ExpectedReturnDate *time.Time
	ActualReturnDate   *time.Time
	Notes              *string
	Timestamp          time.Time
}

func (r movementRow) toModel() Movement {
	m := Movement{
		ID:            r.ID,
		EquipmentID:   r.EquipmentID,
		EquipmentName: r.EquipmentName,
		MovementType:  MovementType(r.MovementType),
		BorrowerName:  r.BorrowerName,
		BorrowerEmail: r.BorrowerEmail,
		Timestamp:     r.Timestamp.UTC(),
	}
	if r.DeliveryDate.Valid {
		v := r.DeliveryDate.Time.UTC()
		m.DeliveryDate = &v
	}
	if r.ExpectedReturnDate.Valid {
		v := r.ExpectedReturnDate.Time.UTC()
		m.ExpectedReturnDate = &v
	}
	if r.ActualReturnDate.Valid {
		v := r.ActualReturnDate.Time.UTC()
		m.ActualReturnDate = &v
	}
	if r.Notes.Valid {
		v := r.Notes.String
		m.Notes = &v
	}
	return m
}

func (m Movement) toDTO() MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		EquipmentID:        m.EquipmentID,
		EquipmentName:      m.EquipmentName,
		MovementType:       string(m.MovementType),
		BorrowerName:       m.BorrowerName,
		BorrowerEmail:      m.BorrowerEmail,
		DeliveryDate:       m.DeliveryDate,
		ExpectedReturnDate: m.ExpectedReturnDate,
		ActualReturnDate:   m.ActualReturnDate,
		Notes:              m.Notes,
		Timestamp:          m.Timestamp,
	}
}

// 履歴取得用の検索条件（時刻の上下限はどちらも閉区間）
type ListFilter struct {
	EquipmentID  string
	MovementType string
	Start        *time.Time
	End          *time.Time
}
