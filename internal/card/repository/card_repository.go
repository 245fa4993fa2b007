package repository

import (
	"context"
	"errors"
	"strconv"

	"marketplace_service/internal/card/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CardRepository definition card persistence
type CardRepository interface {
	Insert(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id string) (*domain.Card, error)
	Find(ctx context.Context, query domain.CardQuery) ([]domain.Card, error)
	FindFeatured(ctx context.Context) ([]domain.Card, error)
	Update(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id string) error
}

type cardRepository struct {
	coll *mongo.Collection
}

// NewMongoCardRepository create a CardRepository
func NewMongoCardRepository(db *mongo.Database) CardRepository {
	return &cardRepository{coll: db.Collection("cards")}
}

func (r *cardRepository) Insert(ctx context.Context, card *domain.Card) error {
	res, err := r.coll.InsertOne(ctx, bson.M{
		"seller_id":   card.SellerID,
		"title":       card.Title,
		"description": card.Description,
		"category":    card.Category,
		"cover":       card.Cover,
		"price":       card.Price,
		"featured":    card.Featured,
		"created_at":  card.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		card.ID = oid.Hex()
	}
	return nil
}

func (r *cardRepository) FindByID(ctx context.Context, id string) (*domain.Card, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw cardDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return raw.toDomain(), nil
}

func (r *cardRepository) Find(ctx context.Context, query domain.CardQuery) ([]domain.Card, error) {
	filter := bson.M{}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.Search != "" {
		filter["title"] = bson.M{"$regex": query.Search, "$options": "i"}
	}
	price := bson.M{}
	if query.MinPrice > 0 {
		price["$gte"] = query.MinPrice
	}
	if query.MaxPrice > 0 {
		price["$lte"] = query.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	switch query.Sort {
	case "price_asc":
		sort = bson.D{{Key: "price", Value: 1}}
	case "price_desc":
		sort = bson.D{{Key: "price", Value: -1}}
	}

	return r.findAll(ctx, filter, options.Find().SetSort(sort))
}

func (r *cardRepository) FindFeatured(ctx context.Context) ([]domain.Card, error) {
	return r.findAll(ctx, bson.M{"featured": true}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

func (r *cardRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Card, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cards []domain.Card
	for cursor.Next(ctx) {
		var raw cardDoc
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		cards = append(cards, *raw.toDomain())
	}
	return cards, cursor.Err()
}

func (r *cardRepository) Update(ctx context.Context, card *domain.Card) error {
	oid, err := primitive.ObjectIDFromHex(card.ID)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"title":       card.Title,
			"description": card.Description,
			"category":    card.Category,
			"cover":       card.Cover,
			"price":       card.Price,
			"featured":    card.Featured,
		}},
	)
	return err
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

type cardDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	SellerID    string             `bson:"seller_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category"`
	Cover       string             `bson:"cover,omitempty"`
	Price       int64              `bson:"price"`
	Featured    bool               `bson:"featured"`
	CreatedAt   int64              `bson:"created_at"`
}

func (d *cardDoc) toDomain() *domain.Card {
	return &domain.Card{
		ID:          d.ID.Hex(),
		SellerID:    d.SellerID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Cover:       d.Cover,
		Price:       d.Price,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt,
	}
}

// QuerySignature stable field map for the listing cache key
func QuerySignature(q domain.CardQuery) map[string]string {
	fields := map[string]string{
		"category": q.Category,
		"search":   q.Search,
		"sort":     q.Sort,
	}
	if q.MinPrice > 0 {
		fields["min"] = strconv.FormatInt(q.MinPrice, 10)
	}
	if q.MaxPrice > 0 {
		fields["max"] = strconv.FormatInt(q.MaxPrice, 10)
	}
	return fields
}
