package models

import "time"

type CustomerLocation struct {
	CustomerID uint      `json:"customer_id" gorm:"primaryKey;autoIncrement:false"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address"`
	UpdatedAt  time.Time `json:"updated_at"`
}
