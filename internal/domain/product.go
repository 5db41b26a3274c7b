package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"product_name" json:"product_name"`
	Description   string             `bson:"product_description" json:"product_description"`
	PriceUSD      int                `bson:"price_usd" json:"price_usd"`
	Seller        Ref                `bson:"seller" json:"-"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Images        []string           `bson:"images" json:"images"`
	StockQuantity int                `bson:"stock_quantity" json:"stock_quantity"`
	IsSold        bool               `bson:"is_sold" json:"is_sold"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// FirstImage returns the lead listing image, or "" when none exist.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
