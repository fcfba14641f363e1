// Package models contains database model definitions.
package models

// Setting is a named JSON blob, e.g. the dashboard settings under "app_settings".
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:191;not null"`
	Value []byte
}
