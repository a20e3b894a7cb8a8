package settings

import "time"

type UpdateSettingsRequest struct {
	CheckIntervalHours int `json:"check_interval_hours"`
}

type SettingsResponse struct {
	ID                 string    `json:"id"`
	CheckIntervalHours int       `json:"check_interval_hours"`
	UpdatedAt          time.Time `json:"updated_at"`
}
