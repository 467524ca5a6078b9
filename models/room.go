package models

import (
	"time"
)

// Room is a physical room inside a Location. QRToken is the only
// externally-facing identifier: it is minted once at creation and
// distributed on printed QR codes, so it never changes.
type Room struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LocationID uint      `gorm:"not null;index" json:"location_id"`
	Location   Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	TGGroupID  int64     `gorm:"not null" json:"tg_group_id"`
	QRToken    string    `gorm:"size:8;not null;uniqueIndex" json:"qr_token"`
	CreatedAt  time.Time `json:"created_at"`
	Messages   []Message `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}
