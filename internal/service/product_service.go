package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fathima-sithara/marketplace-service/internal/apperr"
	"github.com/fathima-sithara/marketplace-service/internal/domain"
)

const maxProductImages = 5

// updatableFields is the whitelist for the generic update endpoint.
var updatableFields = map[string]struct{}{
	"product_name":        {},
	"product_description": {},
	"price_usd":           {},
	"category":            {},
	"brand":               {},
	"images":              {},
	"stock_quantity":      {},
	"is_sold":             {},
}

type CreateProductInput struct {
	Name        string   `json:"product_name"`
	Description string   `json:"product_description"`
	PriceUSD    int      `json:"price_usd"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Images      []string `json:"images"`
}

type ProductService struct {
	products ProductStore
	users    UserStore
}

func NewProductService(products ProductStore, users UserStore) *ProductService {
	return &ProductService{products: products, users: users}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, sellerID string, in CreateProductInput) (*domain.Product, error) {
	if in.Name == "" || in.Description == "" {
		return nil, fmt.Errorf("%w: product_name and product_description are required", apperr.ErrInvalidRequest)
	}
	if len(in.Images) > maxProductImages {
		return nil, fmt.Errorf("%w: up to %d images allowed", apperr.ErrInvalidRequest, maxProductImages)
	}
	oid, err := primitive.ObjectIDFromHex(sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user ID", apperr.ErrInvalidRequest)
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}
	now := time.Now().UTC()
	p := &domain.Product{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Description: in.Description,
		PriceUSD:    in.PriceUSD,
		Seller:      domain.NewUserRef(oid),
		Category:    in.Category,
		Brand:       in.Brand,
		Images:      images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.products.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// authorize admits the resolved seller and admins, nobody else. An
// undetermined seller ref denies everyone but admins.
func (s *ProductService) authorize(ctx context.Context, p *domain.Product, userID, role string) error {
	if role == "admin" {
		return nil
	}
	sellerID, ok := p.Seller.Resolve(ctx, func(ctx context.Context, id string) (string, error) {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		return u.ID.Hex(), nil
	})
	if !ok || sellerID != userID {
		return fmt.Errorf("%w: not authorized", apperr.ErrForbidden)
	}
	return nil
}

func (s *ProductService) Update(ctx context.Context, userID, role, productID string, fields map[string]interface{}) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, p, userID, role); err != nil {
		return nil, err
	}

	if raw, ok := fields["images"]; ok {
		if err := validateImagesField(raw); err != nil {
			return nil, err
		}
	}

	safe := map[string]interface{}{}
	for k, v := range fields {
		if _, ok := updatableFields[k]; ok {
			safe[k] = v
		}
	}
	if len(safe) == 0 {
		return p, nil
	}
	safe["updated_at"] = time.Now().UTC()

	return s.products.Update(ctx, productID, safe)
}

func (s *ProductService) Delete(ctx context.Context, userID, role, productID string) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, p, userID, role); err != nil {
		return err
	}
	return s.products.Delete(ctx, productID)
}

// MarkSold closes a listing. Idempotent: marking a sold product again
// returns it unchanged.
func (s *ProductService) MarkSold(ctx context.Context, userID, role, productID string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, p, userID, role); err != nil {
		return nil, err
	}
	if p.IsSold {
		return p, nil
	}
	return s.products.Update(ctx, productID, map[string]interface{}{
		"is_sold":        true,
		"stock_quantity": 0,
		"updated_at":     time.Now().UTC(),
	})
}

func validateImagesField(raw interface{}) error {
	switch v := raw.(type) {
	case []string:
		if len(v) > maxProductImages {
			return fmt.Errorf("%w: up to %d images allowed", apperr.ErrInvalidRequest, maxProductImages)
		}
	case []interface{}:
		if len(v) > maxProductImages {
			return fmt.Errorf("%w: up to %d images allowed", apperr.ErrInvalidRequest, maxProductImages)
		}
		for _, e := range v {
			if _, ok := e.(string); !ok {
				return fmt.Errorf("%w: 'images' must be a list of URLs", apperr.ErrInvalidRequest)
			}
		}
	default:
		return fmt.Errorf("%w: 'images' must be a list of URLs", apperr.ErrInvalidRequest)
	}
	return nil
}
