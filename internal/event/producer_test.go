package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qqtong-pm/mall/internal/domain"
	pkgkafka "github.com/qqtong-pm/mall/pkg/kafka"
	"github.com/qqtong-pm/mall/pkg/logger"
)

type captureWriter struct {
	msgs []kafka.Message
	err  error
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func (c *captureWriter) Close() error { return nil }

func newTestProducer(w *captureWriter, prefix string) *Producer {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProducer(pkgkafka.NewProducerWithWriter(w, []string{"localhost:9092"}, log), prefix, log)
}

func decode(t *testing.T, msg kafka.Message) *pkgkafka.Event {
	t.Helper()
	event, err := pkgkafka.UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	return event
}

func TestProducer_PublishBrandCreated(t *testing.T) {
	w := &captureWriter{}
	p := newTestProducer(w, "")
	ctx := logger.WithCorrelationID(context.Background(), "corr-9")

	b := &domain.Brand{ID: 7, Name: "Nike", FirstLetter: "N", ShowStatus: 1, Logo: "logo.png"}
	require.NoError(t, p.PublishBrandCreated(ctx, b))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "mall.brand.created", msg.Topic)
	assert.Equal(t, "7", string(msg.Key))

	event := decode(t, msg)
	assert.Equal(t, "mall.brand.created", event.EventType)
	assert.Equal(t, AggregateTypeBrand, event.AggregateType)
	assert.Equal(t, SourceBrandService, event.Source)
	assert.Equal(t, "corr-9", event.CorrelationID)
	assert.Equal(t, "1", event.Metadata[MetadataBatchSize])

	var data BrandData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, int64(7), data.ID)
	assert.Equal(t, "Nike", data.Name)
	assert.Equal(t, 1, data.ShowStatus)
}

func TestProducer_PublishBrandUpdated_CustomPrefix(t *testing.T) {
	w := &captureWriter{}
	p := newTestProducer(w, "staging")

	require.NoError(t, p.PublishBrandUpdated(context.Background(), &domain.Brand{ID: 3}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "staging.brand.updated", w.msgs[0].Topic)
}

func TestProducer_PublishBrandsDeleted(t *testing.T) {
	w := &captureWriter{}
	p := newTestProducer(w, "")

	require.NoError(t, p.PublishBrandsDeleted(context.Background(), []int64{4, 5}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "mall.brand.deleted", w.msgs[0].Topic)
	assert.Equal(t, "4", string(w.msgs[0].Key))

	event := decode(t, w.msgs[0])
	assert.Equal(t, "2", event.Metadata[MetadataBatchSize])

	var data BrandDeletedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, []int64{4, 5}, data.IDs)
}

func TestProducer_PublishBrandStatusChanged(t *testing.T) {
	w := &captureWriter{}
	p := newTestProducer(w, "")

	err := p.PublishBrandStatusChanged(context.Background(), []int64{1, 2}, domain.StatusFieldFactory, 0)
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	event := decode(t, w.msgs[0])
	assert.Equal(t, "mall.brand.status_changed", event.EventType)

	var data BrandStatusChangedData
	require.NoError(t, event.UnmarshalData(&data))
	assert.Equal(t, BrandStatusChangedData{IDs: []int64{1, 2}, Field: "factory_status", Value: 0}, data)
}

func TestProducer_PublishError(t *testing.T) {
	w := &captureWriter{err: errors.New("broker down")}
	p := newTestProducer(w, "")

	err := p.PublishBrandCreated(context.Background(), &domain.Brand{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish brand.created event")
	assert.Contains(t, err.Error(), "broker down")
}
