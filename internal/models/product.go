package models

// Product represents a catalog item.
type Product struct {
	ID          ID       `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Rating      *float64 `json:"rating,omitempty"`
	Brand       string   `json:"brand"`
	Image       string   `json:"image"`
}

// CreateProductRequest holds the writable fields of a product.
// Any id sent by the caller is dropped during decoding.
type CreateProductRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" validate:"required"`
	Rating      *float64 `json:"rating"`
	Brand       string   `json:"brand" validate:"required"`
	Image       string   `json:"image" validate:"required"`
}

// Product builds an unsaved product from the request.
func (r CreateProductRequest) Product() Product {
	return Product{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Rating:      r.Rating,
		Brand:       r.Brand,
		Image:       r.Image,
	}
}
