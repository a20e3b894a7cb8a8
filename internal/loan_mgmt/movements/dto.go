package movements

import "time"

const MaxListRows = 1000

type CreateMovementRequest struct {
	EquipmentID        string     `json:"equipment_id" binding:"required"`
	MovementType       string     `json:"movement_type" binding:"required"`
	BorrowerName       string     `json:"borrower_name" binding:"required"`
	BorrowerEmail      string     `json:"borrower_email" binding:"required"`
	DeliveryDate       *time.Time `json:"delivery_date,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

type MovementResponse struct {
	ID                 string     `json:"id"`
	EquipmentID        string     `json:"equipment_id"`
	EquipmentName      string     `json:"equipment_name"`
	MovementType       string     `json:"movement_type"`
	BorrowerName       string     `json:"borrower_name"`
	BorrowerEmail      string     `json:"borrower_email"`
	DeliveryDate       *time.Time `json:"delivery_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	ActualReturnDate   *time.Time `json:"actual_return_date"`
	Notes              *string    `json:"notes"`
	Timestamp          time.Time  `json:"timestamp"`
}
