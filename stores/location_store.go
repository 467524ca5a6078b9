package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/roomvoice/feedback_backend/models"
)

type LocationStore struct {
	db *gorm.DB
}

func NewLocationStore(db *gorm.DB) *LocationStore {
	return &LocationStore{db: db}
}

// Create inserts a new location. The unique index on address is the source
// of truth for duplicates: a violation comes back as ErrConflict.
func (s *LocationStore) Create(ctx context.Context, address string) (*models.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address must not be empty: %w", ErrValidation)
	}

	location := models.Location{Address: address}
	if err := s.db.WithContext(ctx).Create(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("address %q already exists: %w", address, ErrConflict)
		}
		return nil, err
	}
	return &location, nil
}

func (s *LocationStore) GetByAddress(ctx context.Context, address string) (*models.Location, error) {
	var location models.Location
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("location %q: %w", address, ErrNotFound)
		}
		return nil, err
	}
	return &location, nil
}

func (s *LocationStore) ListAll(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.WithContext(ctx).Order("id").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
