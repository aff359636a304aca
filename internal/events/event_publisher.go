package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Topic groups events onto broker topics
type Topic string

const (
	TopicCatalog   Topic = "catalog"
	TopicInventory Topic = "inventory"
)

// Event is a domain event emitted after a successful write
type Event interface {
	EventType() string
	Topic() Topic
	// PartitionKey is the id of the entity the event is about
	PartitionKey() string
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Catalog events

type CategoryCreatedEvent struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type CategoryUpdatedEvent struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type CategoryDeletedEvent struct {
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ProductCreatedEvent struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type ProductUpdatedEvent struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Price      decimal.Decimal `json:"price"`
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type ProductDeletedEvent struct {
	ProductID  uuid.UUID `json:"productId"`
	SKU        string    `json:"sku"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Inventory events

type InventoryCreatedEvent struct {
	InventoryID   uuid.UUID `json:"inventoryId"`
	ProductID     uuid.UUID `json:"productId"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type InventoryUpdatedEvent struct {
	InventoryID   uuid.UUID `json:"inventoryId"`
	ProductID     uuid.UUID `json:"productId"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	OccurredAt    time.Time `json:"occurredAt"`
}

type InventoryDeletedEvent struct {
	InventoryID uuid.UUID `json:"inventoryId"`
	ProductID   uuid.UUID `json:"productId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Stock operations carried by StockChangedEvent
const (
	StockOperationSet    = "set"
	StockOperationAdd    = "add"
	StockOperationRemove = "remove"
)

type StockChangedEvent struct {
	InventoryID      uuid.UUID `json:"inventoryId"`
	ProductID        uuid.UUID `json:"productId"`
	SKU              string    `json:"sku"`
	Operation        string    `json:"operation"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	OccurredAt       time.Time `json:"occurredAt"`
}

type LowStockDetectedEvent struct {
	InventoryID   uuid.UUID `json:"inventoryId"`
	ProductID     uuid.UUID `json:"productId"`
	SKU           string    `json:"sku"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func (CategoryCreatedEvent) EventType() string  { return "CategoryCreated" }
func (CategoryUpdatedEvent) EventType() string  { return "CategoryUpdated" }
func (CategoryDeletedEvent) EventType() string  { return "CategoryDeleted" }
func (ProductCreatedEvent) EventType() string   { return "ProductCreated" }
func (ProductUpdatedEvent) EventType() string   { return "ProductUpdated" }
func (ProductDeletedEvent) EventType() string   { return "ProductDeleted" }
func (InventoryCreatedEvent) EventType() string { return "InventoryCreated" }
func (InventoryUpdatedEvent) EventType() string { return "InventoryUpdated" }
func (InventoryDeletedEvent) EventType() string { return "InventoryDeleted" }
func (StockChangedEvent) EventType() string     { return "StockChanged" }
func (LowStockDetectedEvent) EventType() string { return "LowStockDetected" }

func (CategoryCreatedEvent) Topic() Topic  { return TopicCatalog }
func (CategoryUpdatedEvent) Topic() Topic  { return TopicCatalog }
func (CategoryDeletedEvent) Topic() Topic  { return TopicCatalog }
func (ProductCreatedEvent) Topic() Topic   { return TopicCatalog }
func (ProductUpdatedEvent) Topic() Topic   { return TopicCatalog }
func (ProductDeletedEvent) Topic() Topic   { return TopicCatalog }
func (InventoryCreatedEvent) Topic() Topic { return TopicInventory }
func (InventoryUpdatedEvent) Topic() Topic { return TopicInventory }
func (InventoryDeletedEvent) Topic() Topic { return TopicInventory }
func (StockChangedEvent) Topic() Topic     { return TopicInventory }
func (LowStockDetectedEvent) Topic() Topic { return TopicInventory }

func (e CategoryCreatedEvent) PartitionKey() string  { return e.CategoryID.String() }
func (e CategoryUpdatedEvent) PartitionKey() string  { return e.CategoryID.String() }
func (e CategoryDeletedEvent) PartitionKey() string  { return e.CategoryID.String() }
func (e ProductCreatedEvent) PartitionKey() string   { return e.ProductID.String() }
func (e ProductUpdatedEvent) PartitionKey() string   { return e.ProductID.String() }
func (e ProductDeletedEvent) PartitionKey() string   { return e.ProductID.String() }
func (e InventoryCreatedEvent) PartitionKey() string { return e.ProductID.String() }
func (e InventoryUpdatedEvent) PartitionKey() string { return e.ProductID.String() }
func (e InventoryDeletedEvent) PartitionKey() string { return e.ProductID.String() }
func (e StockChangedEvent) PartitionKey() string     { return e.ProductID.String() }
func (e LowStockDetectedEvent) PartitionKey() string { return e.ProductID.String() }

// maxRetainedEvents bounds the in-memory history; older events are dropped first.
const maxRetainedEvents = 1000

// InMemoryEventPublisher keeps the most recent published events in memory.
// It is used when Kafka is disabled and as a recorder in tests.
type InMemoryEventPublisher struct {
	mu     sync.RWMutex
	logger *zap.Logger
	events []Event
}

func NewInMemoryEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		logger: logger,
		events: make([]Event, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	if len(p.events) > maxRetainedEvents {
		p.events = p.events[len(p.events)-maxRetainedEvents:]
	}
	p.mu.Unlock()

	p.logger.Debug("Event published (in-memory)",
		zap.String("event_type", event.EventType()),
		zap.String("key", event.PartitionKey()),
	)
	return nil
}

// Events returns a copy of the published events in publish order
func (p *InMemoryEventPublisher) Events() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// EventTypes returns the type names of the published events in publish order
func (p *InMemoryEventPublisher) EventTypes() []string {
	events := p.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}

func (p *InMemoryEventPublisher) Reset() {
	p.mu.Lock()
	p.events = p.events[:0]
	p.mu.Unlock()
}
