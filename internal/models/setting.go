package models

import "time"

type SettingType string

const (
	SettingString  SettingType = "string"
	SettingNumber  SettingType = "number"
	SettingBoolean SettingType = "boolean"
	SettingJSON    SettingType = "json"
)

func (t SettingType) Valid() bool {
	switch t {
	case SettingString, SettingNumber, SettingBoolean, SettingJSON:
		return true
	}
	return false
}

type Setting struct {
	Key         string      `json:"key" db:"key"`
	Value       string      `json:"value" db:"value"`
	Description string      `json:"description" db:"description"`
	Type        SettingType `json:"type" db:"type"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	UpdatedBy   *int        `json:"updated_by,omitempty" db:"updated_by"`
}
