package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roomvoice/feedback_backend/models"
)

// tokenAttempts bounds the mint-and-insert loop. The token space is ~32
// bits, so more than one collision in a row already signals something is
// badly wrong.
const tokenAttempts = 5

type RoomStore struct {
	db *gorm.DB
}

func NewRoomStore(db *gorm.DB) *RoomStore {
	return &RoomStore{db: db}
}

// Create mints a fresh token and persists the room. On a token collision
// (unique index violation) it mints again, up to tokenAttempts times, then
// fails with ErrTokenSpaceExhausted.
func (s *RoomStore) Create(ctx context.Context, locationID uint, name string, tgGroupID int64) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("room name must not be empty: %w", ErrValidation)
	}

	var location models.Location
	if err := s.db.WithContext(ctx).First(&location, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("location %d: %w", locationID, ErrNotFound)
		}
		return nil, err
	}

	for i := 0; i < tokenAttempts; i++ {
		room := models.Room{
			LocationID: locationID,
			Name:       name,
			TGGroupID:  tgGroupID,
			QRToken:    NewToken(),
		}
		err := s.db.WithContext(ctx).Create(&room).Error
		if err == nil {
			room.Location = location
			return &room, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}
	return nil, ErrTokenSpaceExhausted
}

// GetByToken is the sole lookup path used by the public feedback surface.
// The token acts as a bearer capability: holding it grants read access to
// room identity and the right to submit feedback.
func (s *RoomStore) GetByToken(ctx context.Context, token string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Preload("Location").Where("qr_token = ?", token).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room token %q: %w", token, ErrNotFound)
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) ListByLocation(ctx context.Context, locationID uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Where("location_id = ?", locationID).Order("id").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// NewToken returns the first 8 hex characters of a random UUID. Tokens in
// this form are already printed on distributed QR codes, so the shape is a
// compatibility contract.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
