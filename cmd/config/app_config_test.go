package config

import (
	"SaveByte/internal/utils"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewApp_RequiresJWTSecret(t *testing.T) {
	previous := utils.GetConfig("JWT_SECRET")
	utils.SetConfig("JWT_SECRET", "")
	t.Cleanup(func() { utils.SetConfig("JWT_SECRET", previous) })

	app, err := NewApp(context.Background(), nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
	assert.Nil(t, app)
}

func TestDSN_UsesConfiguredTimeZone(t *testing.T) {
	previous := utils.GetConfig("TIMEZONE")
	utils.SetConfig("TIMEZONE", "UTC")
	t.Cleanup(func() { utils.SetConfig("TIMEZONE", previous) })

	assert.Contains(t, DSN(), "TimeZone=UTC")
	assert.Contains(t, DSN(), "sslmode=disable")
}
