package migration

import (
	"SaveByte/entities"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// At most one Started transaction may exist per food.
const activeTransactionIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_active_food
	ON transactions (food_id) WHERE status = 'Started'`

func Migrate(db *gorm.DB, logger zerolog.Logger) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("error creating uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"food", &entities.Food{}},
		{"donation", &entities.Donation{}},
		{"transaction", &entities.Transaction{}},
		{"notification", &entities.Notification{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	if err := db.Exec(activeTransactionIndex).Error; err != nil {
		return fmt.Errorf("error creating active transaction index: %w", err)
	}

	logger.Info().Int("tables", len(models)).Msg("database migration complete")
	return nil
}
