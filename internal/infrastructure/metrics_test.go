package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestCreateBusinessMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	defer mp.Shutdown(context.Background())

	business, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	assert.NotNil(t, business.PredictionsTotal)
	assert.NotNil(t, business.PredictionDuration)
}
