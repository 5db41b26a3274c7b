package service

import (
	"context"

	"github.com/fathima-sithara/marketplace-service/internal/domain"
)

// Store seams consumed by the services and implemented by the Mongo
// repositories. Ids cross this boundary as canonical hex strings.

type UserStore interface {
	Insert(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProductStore interface {
	Insert(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type MessageStore interface {
	Insert(ctx context.Context, m *domain.Message) error
	// FindInvolving returns every message the user sent or received, newest first.
	FindInvolving(ctx context.Context, userID string) ([]*domain.Message, error)
	// FindBetween returns one thread within one listing scope, oldest first.
	FindBetween(ctx context.Context, userID, otherID string, productID *string) ([]*domain.Message, error)
	CountThreadUnread(ctx context.Context, receiverID, senderID string, productID *string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
	MarkThreadRead(ctx context.Context, receiverID, senderID string, productID *string) (int64, error)
}
