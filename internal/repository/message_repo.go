package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
	"github.com/aliasadad-hash/Journeyman/internal/models"
)

// MessageRepo persists chat messages. It satisfies realtime.MessageStore.
type MessageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) *MessageRepo {
	col := db.Collection(ColMessages)
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "message_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}}},
	}
	_, _ = col.Indexes().CreateMany(context.Background(), idx)
	return &MessageRepo{col: col}
}

func (r *MessageRepo) Insert(ctx context.Context, m *models.Message) error {
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *MessageRepo) FindByID(ctx context.Context, messageID string) (*models.Message, error) {
	var m models.Message
	err := r.col.FindOne(ctx, bson.M{"message_id": messageID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SetReaction replaces any prior reaction by the same reactor with r,
// returning the updated message. One reaction per reactor per message.
func (r *MessageRepo) SetReaction(ctx context.Context, messageID string, reaction models.Reaction) (*models.Message, error) {
	filter := bson.M{"message_id": messageID}
	if _, err := r.col.UpdateOne(ctx, filter,
		bson.M{"$pull": bson.M{"reactions": bson.M{"user_id": reaction.UserID}}}); err != nil {
		return nil, err
	}
	var m models.Message
	err := r.col.FindOneAndUpdate(ctx, filter,
		bson.M{"$push": bson.M{"reactions": reaction}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepo) ClearReaction(ctx context.Context, messageID, reactorID string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"message_id": messageID},
		bson.M{"$pull": bson.M{"reactions": bson.M{"user_id": reactorID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// MarkConversationRead flips unread messages addressed to readerID in
// the conversation. Safe to call repeatedly; only read=false documents
// match.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, conversationID, readerID string, at time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"conversation_id": conversationID, "recipient_id": readerID, "read": false},
		bson.M{"$set": bson.M{"read": true, "read_at": at}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// History returns a conversation's messages in chronological order.
func (r *MessageRepo) History(ctx context.Context, conversationID string, limit int64) ([]*models.Message, error) {
	cur, err := r.col.Find(ctx, bson.M{"conversation_id": conversationID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentForUser returns the newest messages the user sent or received,
// newest first. Used to assemble the conversation list.
func (r *MessageRepo) RecentForUser(ctx context.Context, userID string, limit int64) ([]*models.Message, error) {
	cur, err := r.col.Find(ctx, bson.M{
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		},
	}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LastInConversation returns the newest message of one conversation,
// or nil when the conversation has none.
func (r *MessageRepo) LastInConversation(ctx context.Context, conversationID string) (*models.Message, error) {
	var m models.Message
	err := r.col.FindOne(ctx, bson.M{"conversation_id": conversationID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
