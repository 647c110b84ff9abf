package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// productRecord is the table layout behind GORMProductRepository. Seq keeps
// insertion order since product ids are not necessarily ordered.
type productRecord struct {
	Seq         uint64 `gorm:"primaryKey;autoIncrement"`
	ProductID   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	Category    string
	Price       float64 `gorm:"not null"`
	Rating      *float64
	Brand       string `gorm:"not null"`
	Image       string `gorm:"not null"`
}

func (productRecord) TableName() string {
	return "products"
}

func toRecord(p *models.Product) productRecord {
	return productRecord{
		ProductID:   string(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		Brand:       p.Brand,
		Image:       p.Image,
	}
}

func (rec productRecord) toModel() models.Product {
	return models.Product{
		ID:          models.ID(rec.ProductID),
		Title:       rec.Title,
		Description: rec.Description,
		Category:    rec.Category,
		Price:       rec.Price,
		Rating:      rec.Rating,
		Brand:       rec.Brand,
		Image:       rec.Image,
	}
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// AutoMigrate creates or updates the products table.
func (r *GORMProductRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&productRecord{}); err != nil {
		return fmt.Errorf("failed to migrate products table: %w", err)
	}
	return nil
}

// GetAll retrieves all products from the database in insertion order.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("seq").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}

	products := make([]models.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toModel())
	}
	return products, nil
}

// Create inserts a product. The product must already carry its id.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return fmt.Errorf("product has no id")
	}

	rec := toRecord(product)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product with ID %s: %w", product.ID, ErrDuplicateProductID)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Delete removes a product by its ID inside a transaction and returns the removed row.
func (r *GORMProductRepository) Delete(ctx context.Context, id models.ID) (*models.Product, error) {
	var rec productRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", string(id)).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
			}
			return fmt.Errorf("failed to get product by ID %s: %w", id, err)
		}

		res := tx.Delete(&productRecord{}, rec.Seq)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	product := rec.toModel()
	return &product, nil
}

// Count returns the number of stored products.
func (r *GORMProductRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return int(n), nil
}
