package equipment

import "time"

// 一覧取得の上限（ページングなしのため暴走防止の固定キャップ）
const MaxListRows = 1000

type CreateEquipmentRequest struct {
	Name         string  `json:"name" binding:"required"`
	Model        string  `json:"model" binding:"required"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       *string `json:"status,omitempty"` // 省略時は Available
}

type UpdateEquipmentRequest struct {
	Name         *string `json:"name,omitempty"`
	Model        *string `json:"model,omitempty"`
	SerialNumber *string `json:"serial_number,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// 貸出中以外は borrower / 日付系フィールドが null になる
type EquipmentResponse struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Model                string     `json:"model"`
	SerialNumber         *string    `json:"serial_number"`
	Status               string     `json:"status"`
	CurrentBorrower      *string    `json:"current_borrower"`
	CurrentBorrowerEmail *string    `json:"current_borrower_email"`
	DeliveryDate         *time.Time `json:"delivery_date"`
	ExpectedReturnDate   *time.Time `json:"expected_return_date"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
