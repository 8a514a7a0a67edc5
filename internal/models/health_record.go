package models

import (
	"errors"
	"regexp"
	"time"
)

// HealthRecord holds one opaque payload per (user, date, category). The
// uniqueness constraint on the triple is what makes saves upserts.
type HealthRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_records_user_date_category" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_records_user_date_category" json:"date"`
	Category  string    `gorm:"size:50;not null;uniqueIndex:idx_records_user_date_category" json:"category"`
	Data      string    `gorm:"type:text" json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidCategory = errors.New("invalid category")
)

// The well-known categories. Custom tags are allowed (import may carry
// caller-defined ones) but must pass the same shape check.
const (
	CategoryWater    = "water"
	CategoryMeals    = "meals"
	CategoryExercise = "exercise"
	CategoryWeight   = "weight"
)

var categoryPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)

// ParseDate validates a calendar-day string and returns it in the canonical
// YYYY-MM-DD form used as the row key.
func ParseDate(s string) (string, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format("2006-01-02"), nil
}

// ParseCategory validates a category tag. Known tags pass as-is; custom ones
// are accepted when they look like a sane identifier.
func ParseCategory(s string) (string, error) {
	switch s {
	case CategoryWater, CategoryMeals, CategoryExercise, CategoryWeight:
		return s, nil
	}
	if !categoryPattern.MatchString(s) {
		return "", ErrInvalidCategory
	}
	return s, nil
}
