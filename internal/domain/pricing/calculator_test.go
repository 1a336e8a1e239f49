//go:build unit

package pricing_test

import (
	"testing"
	"time"

	"clinic-parking/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tuesday  = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	friday   = time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	sunday   = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
)

func TestIsWeekendDay(t *testing.T) {
	assert.False(t, pricing.IsWeekendDay(tuesday))
	assert.True(t, pricing.IsWeekendDay(friday))
	assert.True(t, pricing.IsWeekendDay(saturday))
	assert.True(t, pricing.IsWeekendDay(sunday))
}

func TestQuote(t *testing.T) {
	calc := pricing.NewCalculator(200, 400)

	t.Run("weekday rate", func(t *testing.T) {
		amount, err := calc.Quote(tuesday, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(400), amount)
	})

	t.Run("weekend rate applies Friday through Sunday", func(t *testing.T) {
		for _, day := range []time.Time{friday, saturday, sunday} {
			amount, err := calc.Quote(day, 2)
			require.NoError(t, err)
			assert.Equal(t, int64(800), amount)
		}
	})

	t.Run("hour bounds", func(t *testing.T) {
		_, err := calc.Quote(tuesday, 0)
		assert.ErrorIs(t, err, pricing.ErrInvalidHours)
		_, err = calc.Quote(tuesday, 13)
		assert.ErrorIs(t, err, pricing.ErrInvalidHours)

		amount, err := calc.Quote(tuesday, 12)
		require.NoError(t, err)
		assert.Equal(t, int64(2400), amount)
	})
}
