package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/marketplace-service/internal/domain"
)

// MessageRepository is the append-only message store. Predicates filter
// on the canonical DBRef encoding ("sender.$id", "receiver.$id",
// "product.$id") that every write produces; tolerance for the legacy
// stored shapes lives in domain.Ref decoding, not in query construction.
type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	r := &MessageRepository{coll: db.Collection("messages")}
	_, _ = r.coll.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return r
}

// scopeFilter adds the listing-scope predicate: id equality when scoped,
// a null product otherwise. "No listing" is its own bucket.
func scopeFilter(filter bson.M, productID *string) (bson.M, error) {
	if productID == nil {
		filter["product"] = nil
		return filter, nil
	}
	pid, err := oidFromHex(*productID, "product")
	if err != nil {
		return nil, err
	}
	filter["product.$id"] = pid
	return filter, nil
}

func (r *MessageRepository) Insert(ctx context.Context, m *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

// FindInvolving returns every message the user sent or received, newest
// first.
func (r *MessageRepository) FindInvolving(ctx context.Context, userID string) ([]*domain.Message, error) {
	oid, err := oidFromHex(userID, "user")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	filter := bson.M{"$or": []bson.M{
		{"sender.$id": oid},
		{"receiver.$id": oid},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeMessages(ctx, cur)
}

// FindBetween returns the full thread between two users within one
// listing scope, oldest first.
func (r *MessageRepository) FindBetween(ctx context.Context, userID, otherID string, productID *string) ([]*domain.Message, error) {
	uid, err := oidFromHex(userID, "user")
	if err != nil {
		return nil, err
	}
	oid, err := oidFromHex(otherID, "user")
	if err != nil {
		return nil, err
	}
	scope, err := scopeFilter(bson.M{}, productID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"$and": []bson.M{
		{"$or": []bson.M{
			{"sender.$id": uid, "receiver.$id": oid},
			{"sender.$id": oid, "receiver.$id": uid},
		}},
		scope,
	}}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	return decodeMessages(ctx, cur)
}

// CountThreadUnread counts unread messages from one sender to one
// receiver within one listing scope.
func (r *MessageRepository) CountThreadUnread(ctx context.Context, receiverID, senderID string, productID *string) (int64, error) {
	rid, err := oidFromHex(receiverID, "user")
	if err != nil {
		return 0, err
	}
	sid, err := oidFromHex(senderID, "user")
	if err != nil {
		return 0, err
	}
	filter, err := scopeFilter(bson.M{
		"sender.$id":   sid,
		"receiver.$id": rid,
		"is_read":      false,
	}, productID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, filter)
}

// CountUnread is the global badge count across every conversation.
func (r *MessageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	rid, err := oidFromHex(receiverID, "user")
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{"receiver.$id": rid, "is_read": false})
}

// MarkThreadRead flips is_read on every unread message from sender to
// receiver within one listing scope. Returns the number flipped; running
// it again with no new messages is a no-op.
func (r *MessageRepository) MarkThreadRead(ctx context.Context, receiverID, senderID string, productID *string) (int64, error) {
	rid, err := oidFromHex(receiverID, "user")
	if err != nil {
		return 0, err
	}
	sid, err := oidFromHex(senderID, "user")
	if err != nil {
		return 0, err
	}
	filter, err := scopeFilter(bson.M{
		"sender.$id":   sid,
		"receiver.$id": rid,
		"is_read":      false,
	}, productID)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func decodeMessages(ctx context.Context, cur *mongo.Cursor) ([]*domain.Message, error) {
	out := []*domain.Message{}
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, cur.Err()
}
