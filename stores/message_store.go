package stores

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/roomvoice/feedback_backend/models"
)

type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, roomID uint, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("feedback text must not be empty: %w", ErrValidation)
	}

	message := models.Message{RoomID: roomID, Text: text}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *MessageStore) ListByRoom(ctx context.Context, roomID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Order("created_at ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
