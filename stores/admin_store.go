package stores

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/roomvoice/feedback_backend/models"
)

type AdminStore struct {
	db *gorm.DB
}

func NewAdminStore(db *gorm.DB) *AdminStore {
	return &AdminStore{db: db}
}

// IsAdmin answers a membership query against the allow-list. A non-nil
// error means the answer is unknown; callers must not read it as false,
// or legitimate admins get locked out during an outage.
func (s *AdminStore) IsAdmin(ctx context.Context, identity string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", identity).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("admin lookup failed: %w: %v", ErrUnavailable, err)
	}
	return count > 0, nil
}
