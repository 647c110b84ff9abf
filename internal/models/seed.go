package models

func rating(v float64) *float64 { return &v }

// DefaultCatalog returns the products a fresh catalog starts with, in order.
// Ids are left empty; they are assigned when the catalog is seeded.
func DefaultCatalog() []Product {
	return []Product{
		{
			Title:       "Essence Mascara Lash Princess",
			Description: "The Essence Mascara Lash Princess is a popular mascara known for its volumizing and lengthening effects.",
			Category:    "beauty",
			Price:       9.99,
			Rating:      rating(2.56),
			Brand:       "Essence",
			Image:       "https://cdn.dummyjson.com/product-images/beauty/essence-mascara-lash-princess/thumbnail.webp",
		},
		{
			Title:       "Eyeshadow Palette with Mirror",
			Description: "The Eyeshadow Palette with Mirror offers a versatile range of eyeshadow shades for creating stunning eye looks.",
			Category:    "beauty",
			Price:       19.99,
			Rating:      rating(2.86),
			Brand:       "Glamour Beauty",
			Image:       "https://cdn.dummyjson.com/product-images/beauty/eyeshadow-palette-with-mirror/thumbnail.webp",
		},
		{
			Title:       "Powder Canister",
			Description: "The Powder Canister is a finely milled setting powder designed to set makeup and control shine.",
			Category:    "beauty",
			Price:       14.99,
			Rating:      rating(4.64),
			Brand:       "Velvet Touch",
			Image:       "https://cdn.dummyjson.com/product-images/beauty/powder-canister/thumbnail.webp",
		},
		{
			Title:       "Calvin Klein CK One",
			Description: "CK One by Calvin Klein is a classic unisex fragrance, known for its fresh and clean scent.",
			Category:    "fragrances",
			Price:       49.99,
			Rating:      rating(4.37),
			Brand:       "Calvin Klein",
			Image:       "https://cdn.dummyjson.com/product-images/fragrances/calvin-klein-ck-one/thumbnail.webp",
		},
		{
			Title:       "Annibale Colombo Bed",
			Description: "The Annibale Colombo Bed is a luxurious and elegant bed frame, crafted with high-quality materials.",
			Category:    "furniture",
			Price:       1899.99,
			Rating:      rating(4.77),
			Brand:       "Annibale Colombo",
			Image:       "https://cdn.dummyjson.com/product-images/furniture/annibale-colombo-bed/thumbnail.webp",
		},
	}
}
