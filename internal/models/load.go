package models

import "time"

type Shift string

const (
	ShiftA Shift = "A"
	ShiftB Shift = "B"
	ShiftC Shift = "C"
)

// Load is one picking line on the dock board. Header fields
// (trailer_no, status, ship_date, time_slot) are duplicated across
// every row of a (time_slot, lane) column; header updates rewrite
// them on all matching rows.
type Load struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	TimeSlot  string `gorm:"size:5;index;default:'17:00'"`
	TrailerNo string `gorm:"size:50;index"`
	Lane      string `gorm:"size:10;index"`
	Seq       *int
	Planned   *int
	Done      *int
	LoCode    string `gorm:"size:20"`
	Picker    string `gorm:"size:50"`
	Status    string `gorm:"size:30"`
	Confirmed *int

	VehicleNo   string  `gorm:"size:50;index;default:''"`
	OrderNo     string  `gorm:"size:100;default:''"`
	PayloadTons float64 `gorm:"default:0"`
	Notes       string  `gorm:"type:text"`

	ShipDate string `gorm:"size:20"`
	Area     string `gorm:"size:10"`

	Shift       Shift `gorm:"size:1;not null"`
	CreatedByID uint  `gorm:"not null"`
	CreatedBy   User  `gorm:"foreignKey:CreatedByID"`
}

func (Load) TableName() string { return "loads" }
