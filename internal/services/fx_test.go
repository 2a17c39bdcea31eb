package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdo/folio/internal/apperrors"
)

func TestStaticRateProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("identity", func(t *testing.T) {
		provider := NewStaticRateProvider()
		rate, err := provider.Rate(ctx, "USD", "USD")
		require.NoError(t, err)
		assert.True(t, rate.Equal(dec("1")))
	})

	t.Run("registered pair and inverse", func(t *testing.T) {
		provider := NewStaticRateProvider()
		provider.SetRate("USD", "CNY", dec("7.25"))

		rate, err := provider.Rate(ctx, "USD", "CNY")
		require.NoError(t, err)
		assert.True(t, rate.Equal(dec("7.25")))

		inverse, err := provider.Rate(ctx, "CNY", "USD")
		require.NoError(t, err)
		requireClose(t, "0.1379310344827586", inverse)
	})

	t.Run("missing pair", func(t *testing.T) {
		provider := NewStaticRateProvider()
		_, err := provider.Rate(ctx, "USD", "JPY")
		require.Error(t, err)
		var missing *apperrors.ErrMissingExchangeRate
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "USD", missing.From)
		assert.Equal(t, "JPY", missing.To)
	})
}

func TestStaticRateProviderFromEnv(t *testing.T) {
	t.Setenv("FX_RATES", "USD/CNY=7.25, HKD/CNY=0.93, bogus, X/Y=notanumber")

	provider := NewStaticRateProviderFromEnv()
	ctx := context.Background()

	rate, err := provider.Rate(ctx, "USD", "CNY")
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("7.25")))

	rate, err = provider.Rate(ctx, "HKD", "CNY")
	require.NoError(t, err)
	assert.True(t, rate.Equal(dec("0.93")))

	_, err = provider.Rate(ctx, "X", "Y")
	assert.Error(t, err)
}
