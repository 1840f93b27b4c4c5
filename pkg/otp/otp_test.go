package otp

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, minCode)
		assert.LessOrEqual(t, n, maxCode)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		given    string
		want     bool
	}{
		{"match", "123456", "123456", true},
		{"mismatch", "123456", "123457", false},
		{"shorter", "123456", "12345", false},
		{"empty", "123456", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.expected, tt.given))
		})
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLimiter(time.Minute, 3)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("tx-1"))
	}
	assert.False(t, l.Allow("tx-1"))
	assert.True(t, l.Allow("tx-2"), "keys are independent")

	now = now.Add(time.Minute)
	assert.True(t, l.Allow("tx-1"), "one token refills per interval")
}

func TestLimiter_ForgetAndSweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLimiter(time.Hour, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	l.Forget("a")
	assert.True(t, l.Allow("a"))

	l.Allow("b")
	now = now.Add(2 * time.Hour)
	l.Allow("c")
	assert.Equal(t, 2, l.Sweep(time.Hour))
	assert.Len(t, l.entries, 1)
}
