package domain

import "time"

type ToolStatus string

const (
	ToolStatusActive           ToolStatus = "ACTIVE"
	ToolStatusInactive         ToolStatus = "INACTIVE"
	ToolStatusUnderMaintenance ToolStatus = "UNDER_MAINTENANCE"
)

type ToolType string

const (
	ToolTypeSpecial  ToolType = "SPECIAL"
	ToolTypeDailyUse ToolType = "DAILY_USE"
)

type Tool struct {
	ID          int32      `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ToolType    ToolType   `json:"tool_type"`
	Category    string     `json:"category,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	// StockQuantity/MinimumStock are descriptive inventory metadata. A tool
	// row is a single borrowable asset; the issuance engine never reads them.
	StockQuantity            int32      `json:"stock_quantity"`
	MinimumStock             int32      `json:"minimum_stock"`
	CalibrationRequired      bool       `json:"calibration_required"`
	CalibrationFrequencyDays *int32     `json:"calibration_frequency_days,omitempty"`
	LastCalibrationDate      *time.Time `json:"last_calibration_date,omitempty"`
	NextCalibrationDate      *time.Time `json:"next_calibration_date,omitempty"`
	Status                   ToolStatus `json:"status"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}
