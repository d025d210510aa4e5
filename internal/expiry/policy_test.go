package expiry_test

import (
	"testing"
	"time"

	"github.com/saulo-duarte/learnpath/internal/expiry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpiresAt(t *testing.T) {
	issued := date(2025, time.January, 15)

	t.Run("Never", func(t *testing.T) {
		got, err := expiry.Policy{ExpiryType: expiry.Never}.ExpiresAt(issued)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("FixedDate", func(t *testing.T) {
		fixed := date(2026, time.December, 31)
		got, err := expiry.Policy{ExpiryType: expiry.FixedDate, ExpiryDate: &fixed}.ExpiresAt(issued)
		require.NoError(t, err)
		assert.Equal(t, fixed, *got)
	})

	t.Run("PeriodDays", func(t *testing.T) {
		got, err := expiry.Policy{ExpiryType: expiry.PeriodDays, ExpiryValue: intPtr(30)}.ExpiresAt(issued)
		require.NoError(t, err)
		assert.Equal(t, date(2025, time.February, 14), *got)
	})

	t.Run("PeriodMonths", func(t *testing.T) {
		got, err := expiry.Policy{ExpiryType: expiry.PeriodMonths, ExpiryValue: intPtr(6)}.ExpiresAt(issued)
		require.NoError(t, err)
		assert.Equal(t, date(2025, time.July, 15), *got)
	})

	t.Run("PeriodYears", func(t *testing.T) {
		got, err := expiry.Policy{ExpiryType: expiry.PeriodYears, ExpiryValue: intPtr(2)}.ExpiresAt(issued)
		require.NoError(t, err)
		assert.Equal(t, date(2027, time.January, 15), *got)
	})

	t.Run("InvalidPolicies", func(t *testing.T) {
		_, err := expiry.Policy{ExpiryType: expiry.PeriodMonths}.ExpiresAt(issued)
		assert.ErrorIs(t, err, expiry.ErrInvalidPolicy)

		_, err = expiry.Policy{ExpiryType: expiry.FixedDate}.ExpiresAt(issued)
		assert.ErrorIs(t, err, expiry.ErrInvalidPolicy)

		_, err = expiry.Policy{ExpiryType: "WEEKLY"}.ExpiresAt(issued)
		assert.ErrorIs(t, err, expiry.ErrInvalidPolicy)
	})
}

func TestValid(t *testing.T) {
	now := date(2025, time.May, 1)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	assert.True(t, expiry.Valid(nil, now))
	assert.True(t, expiry.Valid(&tomorrow, now))
	assert.False(t, expiry.Valid(&yesterday, now))
	assert.False(t, expiry.Valid(&now, now))
}
