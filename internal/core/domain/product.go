package domain

import "time"

// Product is a catalog entry. Price is expressed in minor currency units.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	SKU         string    `json:"sku" bson:"sku"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       int64     `json:"price" bson:"price"`
	Currency    string    `json:"currency" bson:"currency"`
	Stock       int64     `json:"stock" bson:"stock"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
