package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryPhone  Category = "phone"
	CategoryLaptop Category = "laptop"
)

func (c Category) Valid() bool {
	return c == CategoryPhone || c == CategoryLaptop
}

type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLaunched Status = "launched"
)

func (s Status) Valid() bool {
	return s == StatusUpcoming || s == StatusLaunched
}

type Product struct {
	ID         int64                       `gorm:"primaryKey"`
	Title      string                      `gorm:"type:text;not null"`
	Brand      string                      `gorm:"type:text;not null"`
	Category   Category                    `gorm:"type:text;not null;index"`
	Images     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	LaunchDate time.Time                   `gorm:"column:launch_date;not null;index"`
	Price      *float64                    `gorm:"type:numeric"`
	Specs      datatypes.JSONMap           `gorm:"type:jsonb"`
	Slug       string                      `gorm:"type:text;not null;uniqueIndex:ux_products_slug"`
	CreatedAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Status derives the launch state at the given instant. It is never stored,
// so it flips on its own as real time passes the launch date.
func (p *Product) Status(now time.Time) Status {
	if p.LaunchDate.After(now) {
		return StatusUpcoming
	}
	return StatusLaunched
}
