package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a catalog item owned by the admin subsystem.
// Customer-facing listings only ever see active products.
type Product struct {
	ID          bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string        `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string        `json:"description" bson:"description" validate:"max=2000"`
	Price       float64       `json:"price" bson:"price" validate:"required,gt=0"`
	Category    string        `json:"category" bson:"category" validate:"required"`
	Stock       int           `json:"stock" bson:"stock" validate:"gte=0"`
	Images      []string      `json:"images" bson:"images"`
	IsActive    bool          `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.IsActive
}

func (p *Product) SetTimestamps() {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Images      []string `json:"images"`
	IsActive    *bool    `json:"isActive"`
}

func (req *CreateProductRequest) ToProduct() *Product {
	product := &Product{
		ID:          bson.NewObjectID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      req.Images,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	product.SetTimestamps()
	return product
}
