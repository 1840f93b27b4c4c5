package food_test

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"SaveByte/internal/testdb"
	"SaveByte/internal/utils/storage"
	"SaveByte/pkg/food"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFoodRepository_Postgres(t *testing.T) {
	db := testdb.Postgres(t)
	ctx := context.Background()
	repo := food.NewFoodRepository(db)
	hostel := testdb.User(t, db, domain.RoleHostel, "Hostel A")
	ngo := testdb.User(t, db, domain.RoleNGO, "Food Bank")

	newFood := func(name string) *entities.Food {
		now := time.Now()
		return &entities.Food{
			VegType:       domain.VegTypeVeg,
			WasteFoodType: domain.FoodTypeFresh,
			FoodName:      name,
			Quantity:      3,
			CookedTime:    now.Add(-time.Hour),
			ExpiryTime:    now.Add(4 * time.Hour),
			WastageReason: domain.ReasonSpecialEvent,
			Available:     true,
		}
	}

	t.Run("create listing writes food and donation", func(t *testing.T) {
		f := newFood("Dal")
		d := &entities.Donation{HostelID: hostel.ID, DonateDateTime: time.Now()}
		require.NoError(t, repo.CreateListing(ctx, f, d))

		var donation entities.Donation
		require.NoError(t, db.Where("food_id = ?", f.ID).First(&donation).Error)
		assert.Equal(t, hostel.ID, donation.HostelID)
	})

	t.Run("create listing rolls back food when donation fails", func(t *testing.T) {
		first := newFood("Roti")
		firstDonation := &entities.Donation{HostelID: hostel.ID, DonateDateTime: time.Now()}
		require.NoError(t, repo.CreateListing(ctx, first, firstDonation))

		second := newFood("Orphan")
		clash := &entities.Donation{ID: firstDonation.ID, HostelID: hostel.ID, DonateDateTime: time.Now()}
		assert.Error(t, repo.CreateListing(ctx, second, clash))

		var orphans int64
		require.NoError(t, db.Model(&entities.Food{}).Where("food_name = ?", "Orphan").Count(&orphans).Error)
		assert.Zero(t, orphans)
	})

	t.Run("delete fails the live transaction", func(t *testing.T) {
		listing := testdb.Listing(t, db, hostel, "Biryani")
		started := testdb.StartedTransaction(t, db, listing, hostel, ngo)

		svc := food.NewFoodService(repo, disabledStorage(t), zerolog.Nop())
		events, err := svc.DeleteListing(ctx, hostel.ID.String(), listing.ID.String())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ngo.ID, events[0].UserID)
		assert.Equal(t, domain.NotificationTransactionFailed, events[0].Type)
		assert.Contains(t, events[0].Message, started.ID.String())

		var stored entities.Food
		require.NoError(t, db.Where("id = ?", listing.ID).First(&stored).Error)
		assert.False(t, stored.Available)

		var donations int64
		require.NoError(t, db.Model(&entities.Donation{}).Where("food_id = ?", listing.ID).Count(&donations).Error)
		assert.Zero(t, donations)

		var tx entities.Transaction
		require.NoError(t, db.Where("id = ?", started.ID).First(&tx).Error)
		assert.Equal(t, domain.TransactionFailed, tx.Status)
		assert.Nil(t, tx.OTP)
		assert.Nil(t, tx.OTPExpiresAt)
		assert.NotNil(t, tx.FailedDateTime)
	})

	t.Run("delete by another hostel is not found", func(t *testing.T) {
		listing := testdb.Listing(t, db, hostel, "Khichdi")
		other := testdb.User(t, db, domain.RoleHostel, "Hostel B")

		_, _, err := repo.DeleteListing(ctx, listing.ID.String(), other.ID.String())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		var donations int64
		require.NoError(t, db.Model(&entities.Donation{}).Where("food_id = ?", listing.ID).Count(&donations).Error)
		assert.EqualValues(t, 1, donations)
	})

	t.Run("update cannot reopen food with a started transaction", func(t *testing.T) {
		listing := testdb.Listing(t, db, hostel, "Poha")
		testdb.StartedTransaction(t, db, listing, hostel, ngo)

		_, err := repo.UpdateFood(ctx, listing.ID.String(), func(f *entities.Food) error {
			f.Available = true
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrActiveTransactionExists)

		var stored entities.Food
		require.NoError(t, db.Where("id = ?", listing.ID).First(&stored).Error)
		assert.False(t, stored.Available)
	})

	t.Run("update waits for an accept in flight", func(t *testing.T) {
		listing := testdb.Listing(t, db, hostel, "Upma")

		accept := db.Begin()
		claim := accept.Model(&entities.Food{}).
			Where("id = ? AND available = ?", listing.ID, true).
			Update("available", false)
		require.NoError(t, claim.Error)
		require.EqualValues(t, 1, claim.RowsAffected)

		result := make(chan error, 1)
		go func() {
			_, err := repo.UpdateFood(ctx, listing.ID.String(), func(f *entities.Food) error {
				f.Available = true
				return nil
			})
			result <- err
		}()

		select {
		case err := <-result:
			t.Fatalf("update finished while the food row was locked: %v", err)
		case <-time.After(200 * time.Millisecond):
		}

		require.NoError(t, accept.Create(&entities.Transaction{
			DonorID:       hostel.ID,
			ReceiverID:    ngo.ID,
			FoodID:        listing.ID,
			Status:        domain.TransactionStarted,
			StartDateTime: time.Now(),
		}).Error)
		require.NoError(t, accept.Commit().Error)

		assert.ErrorIs(t, <-result, domain.ErrActiveTransactionExists)

		var stored entities.Food
		require.NoError(t, db.Where("id = ?", listing.ID).First(&stored).Error)
		assert.False(t, stored.Available)
	})

	t.Run("update overwrites fields when free", func(t *testing.T) {
		listing := testdb.Listing(t, db, hostel, "Idli")

		updated, err := repo.UpdateFood(ctx, listing.ID.String(), func(f *entities.Food) error {
			f.FoodName = "Idli Sambar"
			f.Available = true
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Idli Sambar", updated.FoodName)

		_, err = repo.UpdateFood(ctx, listing.ID.String(), func(f *entities.Food) error {
			return domain.ErrInvalidExpiryTime
		})
		assert.ErrorIs(t, err, domain.ErrInvalidExpiryTime)
	})
}

func disabledStorage(t *testing.T) storage.AwsS3 {
	t.Helper()
	s3, err := storage.NewAwsS3(context.Background(), storage.S3Config{})
	require.NoError(t, err)
	return s3
}
