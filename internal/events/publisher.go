package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// Actor identifies where a catalog change came from
type Actor struct {
	ClientIP  string
	UserAgent string
}

// Publisher wraps the go-shared events publisher for catalog events
type Publisher struct {
	publisher *events.Publisher
	storeID   string
	logger    *logrus.Entry
}

// NewPublisher connects to NATS and makes sure the products stream exists
func NewPublisher(natsURL, storeID string, logger *logrus.Logger) (*Publisher, error) {
	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "storefront-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamProducts, []string{"product.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure products stream (may already exist)")
	}

	return &Publisher{
		publisher: publisher,
		storeID:   storeID,
		logger:    logger.WithField("component", "catalog-events"),
	}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// PublishProductCreated publishes a product.created event
func (p *Publisher) PublishProductCreated(ctx context.Context, product *models.Product, actor Actor) error {
	event := p.buildProductEvent(events.ProductCreated, product, actor)
	event.ChangeType = "created"
	event.NewValue = snapshot(product)
	return p.publish(ctx, event)
}

// PublishProductUpdated publishes a product.updated event carrying the
// before/after values of the catalog fields
func (p *Publisher) PublishProductUpdated(ctx context.Context, product, oldProduct *models.Product, changedFields []string, actor Actor) error {
	event := p.buildProductEvent(events.ProductUpdated, product, actor)
	event.ChangeType = "updated"
	event.ChangedFields = changedFields
	if oldProduct != nil {
		event.OldValue = snapshot(oldProduct)
	}
	event.NewValue = snapshot(product)
	return p.publish(ctx, event)
}

// PublishProductDeleted publishes a product.deleted event
func (p *Publisher) PublishProductDeleted(ctx context.Context, product *models.Product, actor Actor) error {
	event := p.buildProductEvent(events.ProductDeleted, product, actor)
	event.ChangeType = "deleted"
	event.OldValue = snapshot(product)
	return p.publish(ctx, event)
}

func snapshot(product *models.Product) map[string]interface{} {
	return map[string]interface{}{
		"slug":       product.Slug,
		"name":       product.Name,
		"price":      product.Price.String(),
		"stock":      product.Stock,
		"status":     product.Status,
		"isTopRated": product.IsTopRated,
	}
}

// buildProductEvent creates a ProductEvent from a product model
func (p *Publisher) buildProductEvent(eventType string, product *models.Product, actor Actor) *events.ProductEvent {
	event := events.NewProductEvent(eventType, p.storeID)
	event.SourceID = uuid.New().String()
	event.ProductID = product.ID.String()
	event.ProductName = product.Name
	event.SKU = product.Slug
	event.Status = string(product.Status)
	event.Price = product.Price.InexactFloat64()
	event.CategoryID = product.SubcategorySlug
	event.ClientIP = actor.ClientIP
	event.UserAgent = actor.UserAgent
	return event
}

// publish logs and publishes events asynchronously
func (p *Publisher) publish(_ context.Context, event *events.ProductEvent) error {
	// The request context ends with the response, so publishing gets its own
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishProduct(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
				"storeID":   event.TenantID,
			}).WithError(err).Error("Failed to publish product event")
		} else {
			p.logger.WithFields(logrus.Fields{
				"eventType":   event.EventType,
				"productID":   event.ProductID,
				"productName": event.ProductName,
			}).Info("Product event published successfully")
		}
	}()

	return nil
}
