package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPart_Validation(t *testing.T) {
	part, err := NewPart(1, "A", 2, 10, 100, Make)
	require.NoError(t, err)
	assert.Equal(t, Quantity(100), part.LotSize)
	assert.Equal(t, 0, part.LowLevelCode)

	testCases := []struct {
		name        string
		leadTime    int
		lotSize     Quantity
		makeOrBuy   MakeOrBuy
		expectError string
	}{
		{"negative lead time", -1, 100, Make, "invalid planning parameter: part 7: lead time cannot be negative, got -1"},
		{"negative lot size", 2, -5, Buy, "invalid planning parameter: part 7: lot size cannot be negative, got -5"},
		{"unknown make or buy", 2, 100, MakeOrBuy(9), "invalid planning parameter: part 7: unknown make/buy code 9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPart(7, "G", tc.leadTime, 10, tc.lotSize, tc.makeOrBuy)
			require.Error(t, err)
			assert.EqualError(t, err, tc.expectError)
			assert.True(t, errors.Is(err, ErrInvalidParameter))
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestPart_ZeroLeadTimeAndLotSizeAllowed(t *testing.T) {
	_, err := NewPart(3, "", 0, 0, 0, Buy)
	require.NoError(t, err)
}

func TestPart_Label(t *testing.T) {
	assert.Equal(t, "A", (&Part{ID: 1, Name: "A"}).Label())
	assert.Equal(t, "42", (&Part{ID: 42}).Label())
}

func TestHorizon(t *testing.T) {
	h := Horizon(3)
	require.NoError(t, h.Validate())
	assert.Equal(t, []PeriodID{1, 2, 3}, h.Periods())
	assert.True(t, h.Contains(1))
	assert.True(t, h.Contains(3))
	assert.False(t, h.Contains(0))
	assert.False(t, h.Contains(4))

	err := Horizon(0).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "horizon must be at least 1 period, got 0")
}
