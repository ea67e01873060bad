package models

import "time"

type Shop struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OwnerID      uint      `json:"owner_id" gorm:"not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"not null"`
	Slug         string    `json:"slug" gorm:"not null;uniqueIndex"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	OpeningHours string    `json:"opening_hours"`
	IsOpen       bool      `json:"is_open" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
