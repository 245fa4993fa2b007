package repository

import (
	"context"
	"errors"

	"marketplace_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository definition conversation persistence
type ConversationRepository interface {
	// Insert store a new conversation and fill in its id
	Insert(ctx context.Context, conv *domain.Conversation) error
	// FindByID look a conversation up; nil when absent
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	// FindByParticipants look the pair's conversation up in either
	// order; nil when the pair never talked
	FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// FindByUser list the user's conversations, most recent activity first
	FindByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	// UpdateSummary set last_message and last_message_at
	UpdateSummary(ctx context.Context, id, lastMessage string, lastMessageAt int64) error
}

type conversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository create a ConversationRepository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{coll: db.Collection("conversations")}
}

func (r *conversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	res, err := r.coll.InsertOne(ctx, bson.M{
		"participant1":    conv.Participant1,
		"participant2":    conv.Participant2,
		"last_message":    conv.LastMessage,
		"last_message_at": conv.LastMessageAt,
		"created_at":      conv.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		conv.ID = oid.Hex()
	}
	return nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed id can never match a stored conversation
		return nil, nil
	}

	var raw conversationDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return raw.toDomain(), nil
}

func (r *conversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"participant1": userA, "participant2": userB},
		bson.M{"participant1": userB, "participant2": userA},
	}}

	var raw conversationDoc
	err := r.coll.FindOne(ctx, filter).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return raw.toDomain(), nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"participant1": userID},
		bson.M{"participant2": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convs []domain.Conversation
	for cursor.Next(ctx) {
		var raw conversationDoc
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		convs = append(convs, *raw.toDomain())
	}
	return convs, cursor.Err()
}

func (r *conversationRepository) UpdateSummary(ctx context.Context, id, lastMessage string, lastMessageAt int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"last_message": lastMessage, "last_message_at": lastMessageAt}},
	)
	return err
}

// conversationDoc mongo shape with ObjectID, converted at the edge so
// the domain type keeps plain string ids
type conversationDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Participant1  string             `bson:"participant1"`
	Participant2  string             `bson:"participant2"`
	LastMessage   string             `bson:"last_message,omitempty"`
	LastMessageAt int64              `bson:"last_message_at,omitempty"`
	CreatedAt     int64              `bson:"created_at"`
}

func (d *conversationDoc) toDomain() *domain.Conversation {
	return &domain.Conversation{
		ID:            d.ID.Hex(),
		Participant1:  d.Participant1,
		Participant2:  d.Participant2,
		LastMessage:   d.LastMessage,
		LastMessageAt: d.LastMessageAt,
		CreatedAt:     d.CreatedAt,
	}
}
