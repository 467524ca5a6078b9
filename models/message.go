package models

import (
	"time"
)

// Message is a single piece of visitor feedback. Rows are append-only:
// nothing in the system updates or deletes them.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Room      Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
