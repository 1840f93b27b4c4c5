package food

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// AvailableListing pairs a food with its donation. Donation is nil when
	// the join misses.
	AvailableListing struct {
		Food     *entities.Food
		Donation *entities.Donation
	}

	FoodRepository interface {
		CreateListing(ctx context.Context, food *entities.Food, donation *entities.Donation) error
		GetFoodByID(ctx context.Context, id string) (*entities.Food, error)
		// UpdateFood loads the food under a row lock, applies fn and saves it.
		// Reopening a food with a Started transaction fails with
		// domain.ErrActiveTransactionExists.
		UpdateFood(ctx context.Context, id string, fn func(food *entities.Food) error) (*entities.Food, error)
		UpdateFoodImage(ctx context.Context, id string, imageURL string) error
		GetDonation(ctx context.Context, foodID string, hostelID string) (*entities.Donation, error)
		DeleteListing(ctx context.Context, foodID string, hostelID string) (*entities.Food, *entities.Transaction, error)
		GetOwnListings(ctx context.Context, hostelID string) ([]*entities.Donation, error)
		GetAvailableListings(ctx context.Context, wasteFoodType string, now time.Time) ([]AvailableListing, error)
		GetUsersByRole(ctx context.Context, role string) ([]*entities.User, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

// CreateListing inserts the food and its donation in one transaction.
func (r *foodRepository) CreateListing(ctx context.Context, food *entities.Food, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(food).Error; err != nil {
			return err
		}
		donation.FoodID = food.ID
		return tx.Create(donation).Error
	})
}

func (r *foodRepository) GetFoodByID(ctx context.Context, id string) (*entities.Food, error) {
	var food entities.Food
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) UpdateFood(ctx context.Context, id string, fn func(food *entities.Food) error) (*entities.Food, error) {
	var food entities.Food
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&food).Error; err != nil {
			return err
		}
		if err := fn(&food); err != nil {
			return err
		}

		if food.Available {
			var active int64
			if err := tx.Model(&entities.Transaction{}).
				Where("food_id = ? AND status = ?", id, domain.TransactionStarted).
				Count(&active).Error; err != nil {
				return err
			}
			if active > 0 {
				return domain.ErrActiveTransactionExists
			}
		}
		return tx.Save(&food).Error
	})
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *foodRepository) UpdateFoodImage(ctx context.Context, id string, imageURL string) error {
	return r.db.WithContext(ctx).Model(&entities.Food{}).
		Where("id = ?", id).
		Update("image_url", imageURL).Error
}

func (r *foodRepository) GetDonation(ctx context.Context, foodID string, hostelID string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Where("food_id = ? AND hostel_id = ?", foodID, hostelID).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// DeleteListing removes the donation, withdraws the food and fails its live
// transaction. The failed transaction is nil when none was running.
func (r *foodRepository) DeleteListing(ctx context.Context, foodID string, hostelID string) (*entities.Food, *entities.Transaction, error) {
	var food entities.Food
	var failed *entities.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var donation entities.Donation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("food_id = ? AND hostel_id = ?", foodID, hostelID).
			First(&donation).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", foodID).
			First(&food).Error; err != nil {
			return err
		}

		if err := tx.Delete(&donation).Error; err != nil {
			return err
		}

		if err := tx.Model(&food).Update("available", false).Error; err != nil {
			return err
		}

		var active entities.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("food_id = ? AND status = ?", foodID, domain.TransactionStarted).
			First(&active).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&active).Updates(map[string]interface{}{
			"status":           domain.TransactionFailed,
			"otp":              nil,
			"otp_expires_at":   nil,
			"failed_date_time": now,
		}).Error; err != nil {
			return err
		}
		active.Status = domain.TransactionFailed
		active.OTP = nil
		active.OTPExpiresAt = nil
		active.FailedDateTime = &now
		failed = &active
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &food, failed, nil
}

func (r *foodRepository) GetOwnListings(ctx context.Context, hostelID string) ([]*entities.Donation, error) {
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

func (r *foodRepository) GetAvailableListings(ctx context.Context, wasteFoodType string, now time.Time) ([]AvailableListing, error) {
	var foods []*entities.Food
	if err := r.db.WithContext(ctx).
		Where("waste_food_type = ? AND available = ? AND expiry_time > ?", wasteFoodType, true, now).
		Order("created_at DESC").
		Find(&foods).Error; err != nil {
		return nil, err
	}
	if len(foods) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(foods))
	for _, f := range foods {
		ids = append(ids, f.ID.String())
	}

	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("food_id IN ?", ids).
		Find(&donations).Error; err != nil {
		return nil, err
	}

	byFood := make(map[string]*entities.Donation, len(donations))
	for _, d := range donations {
		byFood[d.FoodID.String()] = d
	}

	listings := make([]AvailableListing, 0, len(foods))
	for _, f := range foods {
		listings = append(listings, AvailableListing{Food: f, Donation: byFood[f.ID.String()]})
	}
	return listings, nil
}

func (r *foodRepository) GetUsersByRole(ctx context.Context, role string) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
