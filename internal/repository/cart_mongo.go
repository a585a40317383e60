package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxAddRetries = 3

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m mongoCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

// AddItem merges the quantity into an existing line or pushes a new one,
// creating the cart on first add. Both paths are single atomic updates, so
// concurrent adds for the same user/product never lose increments.
func (m mongoCartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	now := time.Now()

	for attempt := 0; attempt < maxAddRetries; attempt++ {
		// Existing line: atomic increment.
		incFilter := bson.M{"user_id": userID, "items.product_id": productID}
		incUpdate := bson.M{
			"$inc": bson.M{"items.$[elem].quantity": quantity, "version": 1},
			"$set": bson.M{"updated_at": now},
		}
		incOpts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetArrayFilters(options.ArrayFilters{
				Filters: []interface{}{bson.M{"elem.product_id": productID}},
			})

		var cart domain.Cart
		err := m.collection.FindOneAndUpdate(ctx, incFilter, incUpdate, incOpts).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to increment cart item: %w", err)
		}

		// No line for this product yet: push one, upserting the cart when
		// absent. The $ne guard plus the unique user_id index turn a lost
		// race into a duplicate-key error, which we retry from the top.
		item := domain.CartItem{ProductID: productID, Quantity: quantity, AddedAt: now}
		pushFilter := bson.M{
			"user_id":          userID,
			"items.product_id": bson.M{"$ne": productID},
		}
		pushUpdate := bson.M{
			"$push":        bson.M{"items": item},
			"$inc":         bson.M{"version": 1},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"created_at": now},
		}
		pushOpts := options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetUpsert(true)

		err = m.collection.FindOneAndUpdate(ctx, pushFilter, pushUpdate, pushOpts).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		return nil, fmt.Errorf("failed to push cart item: %w", err)
	}

	return nil, fmt.Errorf("failed to add item for user %s: too many concurrent cart updates", userID)
}

// SetItemQuantity writes the given quantity verbatim. No clamping: stock
// enforcement is deferred entirely to fulfillment.
func (m mongoCartRepository) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	filter := bson.M{"user_id": userID, "items.product_id": productID}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updated_at":             time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"elem.product_id": productID}},
		})

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, m.missingReason(ctx, userID)
		}
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	return &cart, nil
}

// RemoveItem deletes the line entirely (not a decrement).
func (m mongoCartRepository) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	filter := bson.M{"user_id": userID, "items.product_id": productID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$inc":  bson.M{"version": 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, m.missingReason(ctx, userID)
		}
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	return &cart, nil
}

// ClearCart empties the line-item collection; the cart document itself
// persists (empty), so a follow-up get returns an empty cart, not an error.
func (m mongoCartRepository) ClearCart(ctx context.Context, userID string) (*domain.Cart, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{"items": []domain.CartItem{}, "updated_at": time.Now()},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return &cart, nil
}

// missingReason tells a missing cart apart from a missing line so callers
// get a specific not-found error.
func (m mongoCartRepository) missingReason(ctx context.Context, userID string) error {
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrCartNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check cart existence: %w", err)
	}
	return ErrItemNotFound
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(90 * 24 * 60 * 60), // 90 days TTL
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
