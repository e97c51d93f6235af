package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/qqtong-pm/mall/internal/domain"
	pkgkafka "github.com/qqtong-pm/mall/pkg/kafka"
)

// Event types for brand domain events. The topic an event is written to is
// its type with the configured prefix in front of it.
const (
	TypeBrandCreated       = "brand.created"
	TypeBrandUpdated       = "brand.updated"
	TypeBrandDeleted       = "brand.deleted"
	TypeBrandStatusChanged = "brand.status_changed"
)

// DefaultTopicPrefix is prepended to event types to build topic names.
const DefaultTopicPrefix = "mall"

// Aggregate type constant.
const AggregateTypeBrand = "brand"

// Source identifier for events originating from the brand service.
const SourceBrandService = "brand-service"

// MetadataBatchSize is the metadata key holding how many brands an event covers.
const MetadataBatchSize = "batch_size"

// BrandData is the payload for brand.created and brand.updated events.
type BrandData struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FirstLetter   string `json:"first_letter"`
	Category      string `json:"category,omitempty"`
	Sort          int    `json:"sort"`
	FactoryStatus int    `json:"factory_status"`
	ShowStatus    int    `json:"show_status"`
	Logo          string `json:"logo"`
}

// BrandDeletedData is the payload for a brand.deleted event.
type BrandDeletedData struct {
	IDs []int64 `json:"ids"`
}

// BrandStatusChangedData is the payload for a brand.status_changed event.
type BrandStatusChangedData struct {
	IDs   []int64 `json:"ids"`
	Field string  `json:"field"`
	Value int     `json:"value"`
}

// Publisher is the part of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes brand domain events to Kafka.
type Producer struct {
	kafka  Publisher
	prefix string
	logger *slog.Logger
}

// NewProducer creates a new event producer for the brand service. An empty
// prefix falls back to DefaultTopicPrefix.
func NewProducer(kafka Publisher, prefix string, logger *slog.Logger) *Producer {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Producer{
		kafka:  kafka,
		prefix: prefix,
		logger: logger,
	}
}

// Topic returns the topic name for an event type.
func (p *Producer) Topic(eventType string) string {
	return p.prefix + "." + eventType
}

// PublishBrandCreated publishes a brand.created event.
func (p *Producer) PublishBrandCreated(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TypeBrandCreated, []int64{b.ID}, brandData(b))
}

// PublishBrandUpdated publishes a brand.updated event.
func (p *Producer) PublishBrandUpdated(ctx context.Context, b *domain.Brand) error {
	return p.publish(ctx, TypeBrandUpdated, []int64{b.ID}, brandData(b))
}

// PublishBrandsDeleted publishes one brand.deleted event covering ids.
func (p *Producer) PublishBrandsDeleted(ctx context.Context, ids []int64) error {
	return p.publish(ctx, TypeBrandDeleted, ids, BrandDeletedData{IDs: ids})
}

// PublishBrandStatusChanged publishes a brand.status_changed event.
func (p *Producer) PublishBrandStatusChanged(ctx context.Context, ids []int64, field domain.StatusField, value int) error {
	data := BrandStatusChangedData{IDs: ids, Field: string(field), Value: value}
	return p.publish(ctx, TypeBrandStatusChanged, ids, data)
}

func (p *Producer) publish(ctx context.Context, eventType string, ids []int64, data any) error {
	topic := p.Topic(eventType)
	id := aggregateID(ids)

	event, err := pkgkafka.NewEvent(ctx, topic, id, AggregateTypeBrand, SourceBrandService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	event.WithMetadata(MetadataBatchSize, strconv.Itoa(len(ids)))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("brand_id", id),
		slog.Int("batch_size", len(ids)),
	)

	return nil
}

// aggregateID keys a multi-brand event by its first id so that events about
// a single brand stay ordered on one partition.
func aggregateID(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	return strconv.FormatInt(ids[0], 10)
}

func brandData(b *domain.Brand) BrandData {
	return BrandData{
		ID:            b.ID,
		Name:          b.Name,
		FirstLetter:   b.FirstLetter,
		Category:      b.Category,
		Sort:          b.Sort,
		FactoryStatus: b.FactoryStatus,
		ShowStatus:    b.ShowStatus,
		Logo:          b.Logo,
	}
}
