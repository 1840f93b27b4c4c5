// Package testdb starts a throwaway Postgres for repository tests.
package testdb

import (
	"SaveByte/cmd/config"
	migration "SaveByte/cmd/database/migrate"
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Postgres returns a migrated database in a fresh container. It skips the
// test in -short mode.
func Postgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("savebyte"),
		postgres.WithUsername("savebyte"),
		postgres.WithPassword("savebyte"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := config.OpenDB(dsn)
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db, zerolog.Nop()))
	return db
}

// User inserts a user with a unique email.
func User(t *testing.T, db *gorm.DB, role, organization string) entities.User {
	t.Helper()
	user := entities.User{
		Role:             role,
		OrganizationName: organization,
		Email:            uuid.NewString() + "@example.com",
		Password:         "x",
		Phone:            "9000000000",
		Address:          "Campus",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// Listing inserts an available fresh food donated by hostel.
func Listing(t *testing.T, db *gorm.DB, hostel entities.User, name string) entities.Food {
	t.Helper()
	now := time.Now()
	food := entities.Food{
		VegType:       domain.VegTypeVeg,
		WasteFoodType: domain.FoodTypeFresh,
		FoodName:      name,
		Quantity:      4,
		CookedTime:    now.Add(-time.Hour),
		ExpiryTime:    now.Add(5 * time.Hour),
		WastageReason: domain.ReasonOverCooking,
		Available:     true,
	}
	require.NoError(t, db.Create(&food).Error)
	require.NoError(t, db.Create(&entities.Donation{HostelID: hostel.ID, FoodID: food.ID, DonateDateTime: now}).Error)
	return food
}

// StartedTransaction marks food as taken and inserts its live transaction.
func StartedTransaction(t *testing.T, db *gorm.DB, food entities.Food, donor, receiver entities.User) entities.Transaction {
	t.Helper()
	code := "482913"
	expires := time.Now().Add(domain.OTPValidity)
	tx := entities.Transaction{
		DonorID:       donor.ID,
		ReceiverID:    receiver.ID,
		FoodID:        food.ID,
		Status:        domain.TransactionStarted,
		OTP:           &code,
		OTPExpiresAt:  &expires,
		StartDateTime: time.Now(),
	}
	require.NoError(t, db.Model(&entities.Food{}).Where("id = ?", food.ID).Update("available", false).Error)
	require.NoError(t, db.Create(&tx).Error)
	return tx
}
