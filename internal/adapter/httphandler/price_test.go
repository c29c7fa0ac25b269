package httphandler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzzuuusurp/faux-cart-copy/internal/adapter/httphandler"
)

func TestParsePrice(t *testing.T) {
	t.Run("PlainNumber", func(t *testing.T) {
		v, err := httphandler.ParsePrice("9.99")
		require.NoError(t, err)
		assert.Equal(t, 9.99, v)
	})

	t.Run("DollarSymbol", func(t *testing.T) {
		v, err := httphandler.ParsePrice("$9.99")
		require.NoError(t, err)
		assert.Equal(t, 9.99, v)
	})

	t.Run("ThousandsSeparator", func(t *testing.T) {
		v, err := httphandler.ParsePrice("$1,299.95")
		require.NoError(t, err)
		assert.Equal(t, 1299.95, v)
	})

	t.Run("CurrencyCodePrefix", func(t *testing.T) {
		v, err := httphandler.ParsePrice("USD 5")
		require.NoError(t, err)
		assert.Equal(t, 5.0, v)
	})

	t.Run("SurroundingText", func(t *testing.T) {
		v, err := httphandler.ParsePrice("only 19.90 today")
		require.NoError(t, err)
		assert.Equal(t, 19.9, v)
	})

	t.Run("NoDigits", func(t *testing.T) {
		_, err := httphandler.ParsePrice("free")
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := httphandler.ParsePrice("")
		assert.Error(t, err)
	})

	t.Run("TooManyDecimalPoints", func(t *testing.T) {
		_, err := httphandler.ParsePrice("1.2.3")
		assert.Error(t, err)
	})
}

func TestFormatCurrency(t *testing.T) {
	assert.Contains(t, httphandler.FormatCurrency(9.99), "9.99")
	assert.Contains(t, httphandler.FormatCurrency(0), "0.00")
}
