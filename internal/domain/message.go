package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
)

// MaxContentRunes bounds message content, counted in code points.
const MaxContentRunes = 1000

// Message is a directed message between two users, optionally tied to a
// product listing. Immutable after creation except for IsRead.
type Message struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Sender    Ref                `bson:"sender" json:"-"`
	Receiver  Ref                `bson:"receiver" json:"-"`
	Content   string             `bson:"content" json:"content"`
	Product   *Ref               `bson:"product" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
}

// NewMessage builds an unread message, enforcing the creation-time
// invariants: valid ids, sender != receiver, bounded content.
func NewMessage(senderID, receiverID, content string, productID *string) (*Message, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot send message to yourself", apperr.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(content) > MaxContentRunes {
		return nil, fmt.Errorf("%w: message content exceeds %d characters", apperr.ErrInvalidRequest, MaxContentRunes)
	}

	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sender ID", apperr.ErrInvalidRequest)
	}
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid receiver ID", apperr.ErrInvalidRequest)
	}

	m := &Message{
		ID:        primitive.NewObjectID(),
		Sender:    NewUserRef(sender),
		Receiver:  NewUserRef(receiver),
		Content:   content,
		CreatedAt: time.Now().UTC(),
		IsRead:    false,
	}
	if productID != nil {
		pid, err := primitive.ObjectIDFromHex(*productID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product ID", apperr.ErrInvalidRequest)
		}
		ref := NewProductRef(pid)
		m.Product = &ref
	}
	return m, nil
}
