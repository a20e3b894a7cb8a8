package documents

import (
	"io"
	"time"
)

const (
	MaxListRows = 1000

	// 納品書PDFの上限サイズ
	MaxUploadBytes = 50 << 20 // 50 MiB

	acceptedExt = ".pdf"
)

// multipart から handler が取り出して渡す入力
type UploadInput struct {
	Src              io.Reader
	OriginalFilename string
	Size             int64
	EquipmentID      string
	MovementID       *string
}

// アップロード応答は元のファイル名をそのまま返す（UI側の表示用）
type UploadResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentResponse struct {
	ID               string    `json:"id"`
	EquipmentID      string    `json:"equipment_id"`
	MovementID       *string   `json:"movement_id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	FileSize         int64     `json:"file_size"`
	UploadedAt       time.Time `json:"uploaded_at"`
}
