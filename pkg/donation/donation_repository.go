package donation

import (
	"SaveByte/entities"
	"context"

	"gorm.io/gorm"
)

type (
	DonationRepository interface {
		GetDonationsWithFood(ctx context.Context, hostelID string) ([]*entities.Donation, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) GetDonationsWithFood(ctx context.Context, hostelID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Food").
		Where("hostel_id = ?", hostelID).
		Order("donate_date_time DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}
