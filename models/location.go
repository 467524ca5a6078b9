package models

import (
	"time"
)

type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Address   string    `gorm:"type:text;not null;uniqueIndex" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	Rooms     []Room    `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}
