package kafka

import (
	"context"
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, labels ...string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, publishedMessages.WithLabelValues(labels...).Write(&m))
	return m.GetCounter().GetValue()
}

func TestPublish_RecordsOutcome(t *testing.T) {
	const topic = "mall.metrics-test"
	event, err := NewEvent(context.Background(), "mall.brand.updated", "7", "brand", "brand-service", nil)
	require.NoError(t, err)

	ok := NewProducerWithWriter(&fakeWriter{}, nil, discard())
	require.NoError(t, ok.Publish(context.Background(), topic, event))

	failing := NewProducerWithWriter(&fakeWriter{err: errors.New("boom")}, nil, discard())
	require.Error(t, failing.Publish(context.Background(), topic, event))
	require.Error(t, failing.Publish(context.Background(), topic, event))

	assert.Equal(t, 1.0, counterValue(t, topic, "brand", outcomeOK))
	assert.Equal(t, 2.0, counterValue(t, topic, "brand", outcomeError))
}
