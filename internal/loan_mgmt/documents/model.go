package documents

import (
	"database/sql"
	"time"
)

// DB行に対応（スキャン用）
type documentRow struct {
	ID               string
	EquipmentID      string
	MovementID       sql.NullString
	Filename         string
	OriginalFilename string
	FilePath         string
	FileSize         int64
	UploadedAt       time.Time
}

// Document はアップロード済みファイルのメタデータ。
// 実体（blob）は uploads ディレクトリ側にあり、FilePath がその所在を指す。
type Document struct {
	ID               string
	EquipmentID      string
	MovementID       *string
	Filename         string // 保存用に生成した名前（衝突しない）
	OriginalFilename string // アップロード時の名前
	FilePath         string
	FileSize         int64
	UploadedAt       time.Time
}

func (r documentRow) toModel() Document {
	m := Document{
		ID:               r.ID,
		EquipmentID:      r.EquipmentID,
		Filename:         r.Filename,
		OriginalFilename: r.OriginalFilename,
		FilePath:         r.FilePath,
		FileSize:         r.FileSize,
		UploadedAt:       r.UploadedAt.UTC(),
	}
	if r.MovementID.Valid {
		v := r.MovementID.String
		m.MovementID = &v
	}
	return m
}

func (m Document) toDTO() DocumentResponse {
	return DocumentResponse{
		ID:               m.ID,
		EquipmentID:      m.EquipmentID,
		MovementID:       m.MovementID,
		Filename:         m.Filename,
		OriginalFilename: m.OriginalFilename,
		FilePath:         m.FilePath,
		FileSize:         m.FileSize,
		UploadedAt:       m.UploadedAt,
	}
}
