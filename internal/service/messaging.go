package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/domain"
	"github.com/fathima-sithara/marketplace-service/internal/metrics"
)

type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id,omitempty"`
	ReceiverID string    `json:"receiver_id,omitempty"`
	Content    string    `json:"content"`
	ProductID  *string   `json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
}

type ConversationSummary struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Preview     string    `json:"preview"`
	LastMessage string    `json:"last_message"`
	SentByMe    bool      `json:"sent_by_me"`
	Timestamp   time.Time `json:"timestamp"`
	IsRead      bool      `json:"is_read"`
	UnreadCount int64     `json:"unread_count"`

	// Listing context; all nil for conversations without one.
	ProductID       *string `json:"product_id"`
	ProductName     *string `json:"product_name"`
	ProductIsSold   *bool   `json:"product_is_sold"`
	ProductPriceUSD *int    `json:"product_price_usd"`
	ProductImage    *string `json:"product_image"`
}

type ThreadUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ThreadProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsSold   bool   `json:"is_sold"`
	PriceUSD int    `json:"price_usd"`
	Image    string `json:"image,omitempty"`
}

type ThreadMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	SentByMe  bool      `json:"sent_by_me"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadView struct {
	OtherUser ThreadUser      `json:"other_user"`
	Product   *ThreadProduct  `json:"product"`
	Messages  []ThreadMessage `json:"messages"`
}

// MessagingService owns buyer-seller messaging: the send gateway, the
// inbox aggregation, the thread reader with its read-flip side effect,
// and the unread badge count.
type MessagingService struct {
	messages MessageStore
	users    UserStore
	products ProductStore
	log      *zap.SugaredLogger
}

func NewMessagingService(messages MessageStore, users UserStore, products ProductStore, log *zap.SugaredLogger) *MessagingService {
	return &MessagingService{messages: messages, users: users, products: products, log: log}
}

// userFetcher resolves lazy user links to the canonical document id.
func (s *MessagingService) userFetcher() domain.RefFetcher {
	return func(ctx context.Context, id string) (string, error) {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.ID.Hex(), nil
	}
}

func (s *MessagingService) productFetcher() domain.RefFetcher {
	return func(ctx context.Context, id string) (string, error) {
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return p.ID.Hex(), nil
	}
}

// memoize caches fetches for the duration of one request so that
// aggregating over a long message log does not refetch the same
// referenced document per message.
func memoize(fetch domain.RefFetcher) domain.RefFetcher {
	seen := map[string]string{}
	return func(ctx context.Context, id string) (string, error) {
		if v, ok := seen[id]; ok {
			return v, nil
		}
		v, err := fetch(ctx, id)
		if err != nil {
			return "", err
		}
		seen[id] = v
		return v, nil
	}
}

// Send validates and appends one message. Receiver and listing must
// exist; a sold listing only accepts messages from its own seller.
func (s *MessagingService) Send(ctx context.Context, userID, receiverID, content string, productID *string) (*MessageResponse, error) {
	if receiverID == userID {
		return nil, fmt.Errorf("%w: cannot send message to yourself", apperr.ErrInvalidRequest)
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	if productID != nil {
		p, err := s.products.GetByID(ctx, *productID)
		if err != nil {
			return nil, err
		}
		if p.IsSold {
			// seller keeps the ability to follow up with a buyer
			sellerID, ok := p.Seller.Resolve(ctx, s.userFetcher())
			if !ok || sellerID != userID {
				return nil, fmt.Errorf("%w: this item has been sold, messaging is closed", apperr.ErrForbidden)
			}
		}
	}

	m, err := domain.NewMessage(userID, receiverID, content, productID)
	if err != nil {
		return nil, err
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	return &MessageResponse{
		ID:         m.ID.Hex(),
		SenderID:   userID,
		ReceiverID: receiverID,
		Content:    m.Content,
		ProductID:  productID,
		CreatedAt:  m.CreatedAt,
		IsRead:     m.IsRead,
	}, nil
}

// ListMine returns the user's flat message log, newest first.
func (s *MessagingService) ListMine(ctx context.Context, userID string) ([]*MessageResponse, error) {
	msgs, err := s.messages.FindInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}
	ufetch := memoize(s.userFetcher())
	pfetch := memoize(s.productFetcher())

	out := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		senderID, _ := m.Sender.Resolve(ctx, ufetch)
		receiverID, _ := m.Receiver.Resolve(ctx, ufetch)
		resp := &MessageResponse{
			ID:         m.ID.Hex(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    m.Content,
			CreatedAt:  m.CreatedAt,
			IsRead:     m.IsRead,
		}
		if m.Product != nil {
			if pid, ok := m.Product.Resolve(ctx, pfetch); ok {
				resp.ProductID = &pid
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// UnreadCount is the global badge count: everything addressed to the
// user and still unread, across all conversations and listing scopes.
func (s *MessagingService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.messages.CountUnread(ctx, userID)
}

// Inbox renders one summary per conversation. The scan runs newest
// first, so the first message seen for a key is that conversation's
// representative; unread counts come from fresh per-conversation store
// queries sharing the exact key semantics.
func (s *MessagingService) Inbox(ctx context.Context, userID string) ([]*ConversationSummary, error) {
	metrics.InboxRequests.Inc()

	msgs, err := s.messages.FindInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	ufetch := memoize(s.userFetcher())
	pfetch := memoize(s.productFetcher())
	userCache := map[string]*domain.User{}
	seen := map[conversationKey]struct{}{}
	out := []*ConversationSummary{}

	for _, m := range msgs {
		senderID, sok := m.Sender.Resolve(ctx, ufetch)
		receiverID, rok := m.Receiver.Resolve(ctx, ufetch)
		if !sok || !rok {
			// ambiguous historical row; there is no counterpart to file it under
			s.log.Warnw("skipping message with undetermined party", "message_id", m.ID.Hex())
			continue
		}

		var productID string
		if m.Product != nil {
			pid, ok := m.Product.Resolve(ctx, pfetch)
			if !ok {
				s.log.Warnw("undetermined listing ref, treating as unscoped", "message_id", m.ID.Hex())
			}
			productID = pid
		}

		key, ok := keyFor(userID, senderID, receiverID, productID)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		other, err := s.cachedUser(ctx, userCache, key.otherID)
		if err != nil {
			return nil, err
		}

		var pidPtr *string
		if key.productID != "" {
			pid := key.productID
			pidPtr = &pid
		}
		unread, err := s.messages.CountThreadUnread(ctx, userID, key.otherID, pidPtr)
		if err != nil {
			return nil, err
		}

		summary := &ConversationSummary{
			UserID:      key.otherID,
			UserName:    other.FullName(),
			Preview:     preview(m.Content),
			LastMessage: m.Content,
			SentByMe:    senderID == userID,
			Timestamp:   m.CreatedAt,
			IsRead:      m.IsRead,
			UnreadCount: unread,
		}
		if pidPtr != nil {
			p, err := s.products.GetByID(ctx, key.productID)
			if err != nil {
				return nil, err
			}
			id := p.ID.Hex()
			name := p.Name
			sold := p.IsSold
			price := p.PriceUSD
			summary.ProductID = &id
			summary.ProductName = &name
			summary.ProductIsSold = &sold
			summary.ProductPriceUSD = &price
			if img := p.FirstImage(); img != "" {
				summary.ProductImage = &img
			}
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Thread returns the full conversation with one user within one listing
// scope, oldest first, and flips every unread message addressed to the
// viewer in that scope to read. Messages outside the scope are never
// touched.
func (s *MessagingService) Thread(ctx context.Context, userID, otherID string, productID *string) (*ThreadView, error) {
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	var prod *domain.Product
	if productID != nil {
		prod, err = s.products.GetByID(ctx, *productID)
		if err != nil {
			return nil, err
		}
	}

	msgs, err := s.messages.FindBetween(ctx, userID, otherID, productID)
	if err != nil {
		return nil, err
	}

	ufetch := memoize(s.userFetcher())
	thread := make([]ThreadMessage, 0, len(msgs))
	for _, m := range msgs {
		senderID, _ := m.Sender.Resolve(ctx, ufetch)
		thread = append(thread, ThreadMessage{
			ID:        m.ID.Hex(),
			Content:   m.Content,
			SentByMe:  senderID == userID,
			IsRead:    m.IsRead,
			CreatedAt: m.CreatedAt,
		})
	}

	// read receipts fire on thread open
	flipped, err := s.messages.MarkThreadRead(ctx, userID, otherID, productID)
	if err != nil {
		return nil, err
	}
	metrics.MessagesMarkedRead.Add(float64(flipped))

	view := &ThreadView{
		OtherUser: ThreadUser{ID: other.ID.Hex(), Name: other.FullName()},
		Messages:  thread,
	}
	if prod != nil {
		view.Product = &ThreadProduct{
			ID:       prod.ID.Hex(),
			Name:     prod.Name,
			IsSold:   prod.IsSold,
			PriceUSD: prod.PriceUSD,
			Image:    prod.FirstImage(),
		}
	}
	return view, nil
}

func (s *MessagingService) cachedUser(ctx context.Context, cache map[string]*domain.User, id string) (*domain.User, error) {
	if u, ok := cache[id]; ok {
		return u, nil
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = u
	return u, nil
}
