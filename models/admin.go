package models

// Admin is an allow-list entry. Username holds the Telegram user id
// rendered as text; provisioning happens out of band.
type Admin struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:255;not null;uniqueIndex" json:"username"`
}
