package service

// In-memory stand-ins for the Mongo repositories. They mirror the store
// semantics over the canonical ref encoding (Ref.ID carries the hex id)
// so the aggregation and read-flip properties can be exercised without
// a live database.

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/domain"
)

type memUsers struct {
	byID map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*domain.User{}} }

func (m *memUsers) Insert(_ context.Context, u *domain.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return fmt.Errorf("%w: email already registered", apperr.ErrInvalidRequest)
		}
	}
	m.byID[u.ID.Hex()] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", apperr.ErrInvalidRequest)
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
}

type memProducts struct {
	byID map[string]*domain.Product
}

func newMemProducts() *memProducts { return &memProducts{byID: map[string]*domain.Product{}} }

func (m *memProducts) Insert(_ context.Context, p *domain.Product) error {
	m.byID[p.ID.Hex()] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: invalid product ID", apperr.ErrInvalidRequest)
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	}
	return p, nil
}

func (m *memProducts) List(_ context.Context) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) ListBySeller(_ context.Context, sellerID string) ([]*domain.Product, error) {
	out := []*domain.Product{}
	for _, p := range m.byID {
		if p.Seller.ID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, id string, fields map[string]interface{}) (*domain.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "product_name":
			p.Name, _ = v.(string)
		case "product_description":
			p.Description, _ = v.(string)
		case "price_usd":
			if n, ok := v.(int); ok {
				p.PriceUSD = n
			}
		case "is_sold":
			p.IsSold, _ = v.(bool)
		case "stock_quantity":
			if n, ok := v.(int); ok {
				p.StockQuantity = n
			}
		case "images":
			if ss, ok := v.([]string); ok {
				p.Images = ss
			}
		case "updated_at":
			if t, ok := v.(time.Time); ok {
				p.UpdatedAt = t
			}
		}
	}
	return p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

type memMessages struct {
	msgs []*domain.Message
}

func newMemMessages() *memMessages { return &memMessages{} }

func (m *memMessages) Insert(_ context.Context, msg *domain.Message) error {
	m.msgs = append(m.msgs, msg)
	return nil
}

func inScope(msg *domain.Message, productID *string) bool {
	if productID == nil {
		return msg.Product == nil
	}
	return msg.Product != nil && msg.Product.ID == *productID
}

func (m *memMessages) FindInvolving(_ context.Context, userID string) ([]*domain.Message, error) {
	out := []*domain.Message{}
	for _, msg := range m.msgs {
		if msg.Sender.ID == userID || msg.Receiver.ID == userID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memMessages) FindBetween(_ context.Context, userID, otherID string, productID *string) ([]*domain.Message, error) {
	out := []*domain.Message{}
	for _, msg := range m.msgs {
		pair := (msg.Sender.ID == userID && msg.Receiver.ID == otherID) ||
			(msg.Sender.ID == otherID && msg.Receiver.ID == userID)
		if pair && inScope(msg, productID) {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memMessages) CountThreadUnread(_ context.Context, receiverID, senderID string, productID *string) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if msg.Sender.ID == senderID && msg.Receiver.ID == receiverID && !msg.IsRead && inScope(msg, productID) {
			n++
		}
	}
	return n, nil
}

func (m *memMessages) CountUnread(_ context.Context, receiverID string) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if msg.Receiver.ID == receiverID && !msg.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memMessages) MarkThreadRead(_ context.Context, receiverID, senderID string, productID *string) (int64, error) {
	var n int64
	for _, msg := range m.msgs {
		if msg.Sender.ID == senderID && msg.Receiver.ID == receiverID && !msg.IsRead && inScope(msg, productID) {
			msg.IsRead = true
			n++
		}
	}
	return n, nil
}
