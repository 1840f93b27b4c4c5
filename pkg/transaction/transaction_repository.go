package transaction

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	TransactionRepository interface {
		// RunInTx calls fn with a repository bound to one store transaction.
		RunInTx(ctx context.Context, fn func(repo TransactionRepository) error) error

		// LockFood takes the food row lock. Paths that change both a food and
		// its transaction lock the food first.
		LockFood(ctx context.Context, foodID string) error
		ClaimFood(ctx context.Context, foodID string) (bool, error)
		ReleaseFood(ctx context.Context, foodID string) error
		GetFoodByID(ctx context.Context, foodID string) (*entities.Food, error)
		GetDonationByFood(ctx context.Context, foodID string) (*entities.Donation, error)
		GetUserByID(ctx context.Context, userID string) (*entities.User, error)

		CreateTransaction(ctx context.Context, transaction *entities.Transaction) error
		GetActiveByFoodForUpdate(ctx context.Context, foodID string) (*entities.Transaction, error)
		GetByIDForUpdate(ctx context.Context, id string) (*entities.Transaction, error)
		FailTransaction(ctx context.Context, id string, at time.Time) error
		CompleteTransaction(ctx context.Context, id string, at time.Time) error
		IncrementOTPAttempts(ctx context.Context, id string) error

		GetTransactionByID(ctx context.Context, id string) (*entities.Transaction, error)
		GetTransactionsByDonor(ctx context.Context, donorID string) ([]*entities.Transaction, error)
		GetTransactionsByReceiver(ctx context.Context, receiverID string) ([]*entities.Transaction, error)
	}

	transactionRepository struct {
		db *gorm.DB
	}
)

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) RunInTx(ctx context.Context, fn func(repo TransactionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionRepository{db: tx})
	})
}

func (r *transactionRepository) LockFood(ctx context.Context, foodID string) error {
	var food entities.Food
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", foodID).
		First(&food).Error
}

// ClaimFood flips an available food to unavailable. It reports false when
// the food was already taken.
func (r *transactionRepository) ClaimFood(ctx context.Context, foodID string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entities.Food{}).
		Where("id = ? AND available = ?", foodID, true).
		Update("available", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *transactionRepository) ReleaseFood(ctx context.Context, foodID string) error {
	return r.db.WithContext(ctx).Model(&entities.Food{}).
		Where("id = ?", foodID).
		Update("available", true).Error
}

func (r *transactionRepository) GetFoodByID(ctx context.Context, foodID string) (*entities.Food, error) {
	var food entities.Food
	if err := r.db.WithContext(ctx).Where("id = ?", foodID).First(&food).Error; err != nil {
		return nil, err
	}
	return &food, nil
}

func (r *transactionRepository) GetDonationByFood(ctx context.Context, foodID string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).Where("food_id = ?", foodID).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *transactionRepository) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *transactionRepository) CreateTransaction(ctx context.Context, transaction *entities.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetActiveByFoodForUpdate(ctx context.Context, foodID string) (*entities.Transaction, error) {
	var transaction entities.Transaction
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("food_id = ? AND status = ?", foodID, domain.TransactionStarted).
		First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Transaction, error) {
	var transaction entities.Transaction
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) FailTransaction(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           domain.TransactionFailed,
			"otp":              nil,
			"otp_expires_at":   nil,
			"failed_date_time": at,
		}).Error
}

func (r *transactionRepository) CompleteTransaction(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":              domain.TransactionCompleted,
			"otp":                 nil,
			"otp_expires_at":      nil,
			"completed_date_time": at,
		}).Error
}

func (r *transactionRepository) IncrementOTPAttempts(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&entities.Transaction{}).
		Where("id = ?", id).
		UpdateColumn("otp_attempts", gorm.Expr("otp_attempts + ?", 1)).Error
}

func (r *transactionRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Donor").
		Preload("Receiver").
		Preload("Food")
}

func (r *transactionRepository) GetTransactionByID(ctx context.Context, id string) (*entities.Transaction, error) {
	var transaction entities.Transaction
	if err := r.withParties(ctx).Where("id = ?", id).First(&transaction).Error; err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) GetTransactionsByDonor(ctx context.Context, donorID string) ([]*entities.Transaction, error) {
	var transactions []*entities.Transaction
	if err := r.withParties(ctx).
		Where("donor_id = ?", donorID).
		Order("start_date_time DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *transactionRepository) GetTransactionsByReceiver(ctx context.Context, receiverID string) ([]*entities.Transaction, error) {
	var transactions []*entities.Transaction
	if err := r.withParties(ctx).
		Where("receiver_id = ?", receiverID).
		Order("start_date_time DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
