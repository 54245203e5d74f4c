package repository

import (
	"context"
	"time"

	"erp-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepositoryInterface covers products, categories, tags and partners
type CatalogRepositoryInterface interface {
	// Products
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error)
	GetProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error)
	ListProducts(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, int64, error)
	AllProducts(ctx context.Context, tenantID string) ([]models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, tenantID string, id uuid.UUID) error

	// Categories and tags
	CreateCategory(ctx context.Context, category *models.Category) error
	GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	DeleteCategory(ctx context.Context, tenantID string, id uuid.UUID) error
	CreateTag(ctx context.Context, tag *models.Tag) error
	ListTags(ctx context.Context, tenantID string) ([]models.Tag, error)

	// Partners
	CreatePartner(ctx context.Context, partner *models.Partner) error
	GetPartner(ctx context.Context, tenantID string, id uuid.UUID) (*models.Partner, error)
	GetPartnerByName(ctx context.Context, tenantID, name string, partnerType models.PartnerType) (*models.Partner, error)
	ListPartners(ctx context.Context, tenantID string, filter models.PartnerFilter) ([]models.Partner, int64, error)
	UpdatePartner(ctx context.Context, partner *models.Partner) error
	DeletePartner(ctx context.Context, tenantID string, id uuid.UUID) error

	// Tenants lists every tenant that owns at least one product
	Tenants(ctx context.Context) ([]string, error)
}

type CatalogRepository struct {
	db *gorm.DB
}

var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ========== Product Operations ==========

// CreateProduct creates a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

// GetProduct retrieves a product with its stock rows, category and supplier
func (r *CatalogRepository) GetProduct(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks").Preload("Category").Preload("Supplier").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

func (r *CatalogRepository) GetProductBySKU(ctx context.Context, tenantID, sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks").
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		First(&product).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &product, nil
}

// ListProducts retrieves products matching the filter with pagination
func (r *CatalogRepository) ListProducts(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("tenant_id = ?", tenantID)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(sku) LIKE ? OR LOWER(name) LIKE ?)", pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).
		Preload("Stocks").Preload("Category").
		Order("created_at DESC").
		Find(&products).Error
	return products, total, err
}

// AllProducts returns every product of the tenant with stock rows preloaded
func (r *CatalogRepository) AllProducts(ctx context.Context, tenantID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Stocks").
		Where("tenant_id = ?", tenantID).
		Order("sku ASC").
		Find(&products).Error
	return products, err
}

// UpdateProduct saves product columns without touching associations
func (r *CatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	return mapError(r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error)
}

// DeleteProduct soft deletes a product
func (r *CatalogRepository) DeleteProduct(ctx context.Context, tenantID string, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), tenantID, id, &models.Product{})
}

// ========== Category Operations ==========

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return mapError(r.db.WithContext(ctx).Create(category).Error)
}

// GetOrCreateCategory finds a category by name, creating it on first use
func (r *CatalogRepository) GetOrCreateCategory(ctx context.Context, tenantID, name string) (*models.Category, error) {
	category := models.Category{TenantID: tenantID, Name: name}
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		FirstOrCreate(&category).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &category, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, tenantID string, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), tenantID, id, &models.Category{})
}

func (r *CatalogRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	return mapError(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *CatalogRepository) ListTags(ctx context.Context, tenantID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// ========== Partner Operations ==========

func (r *CatalogRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	return mapError(r.db.WithContext(ctx).Create(partner).Error)
}

func (r *CatalogRepository) GetPartner(ctx context.Context, tenantID string, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&partner).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &partner, nil
}

func (r *CatalogRepository) GetPartnerByName(ctx context.Context, tenantID, name string, partnerType models.PartnerType) (*models.Partner, error) {
	var partner models.Partner
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ? AND type = ?", tenantID, name, partnerType).
		First(&partner).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &partner, nil
}

// ListPartners retrieves partners with optional type filter and pagination
func (r *CatalogRepository) ListPartners(ctx context.Context, tenantID string, filter models.PartnerFilter) ([]models.Partner, int64, error) {
	var partners []models.Partner
	var total int64
	query := r.db.WithContext(ctx).Model(&models.Partner{}).Where("tenant_id = ?", tenantID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(contact_person) LIKE ?)", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(query, filter.ListParams).Order("name ASC").Find(&partners).Error
	return partners, total, err
}

func (r *CatalogRepository) UpdatePartner(ctx context.Context, partner *models.Partner) error {
	partner.UpdatedAt = time.Now()
	return mapError(r.db.WithContext(ctx).Save(partner).Error)
}

func (r *CatalogRepository) DeletePartner(ctx context.Context, tenantID string, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), tenantID, id, &models.Partner{})
}

// Tenants lists every tenant that owns at least one product
func (r *CatalogRepository) Tenants(ctx context.Context) ([]string, error) {
	var tenants []string
	err := r.db.WithContext(ctx).Model(&models.Product{}).Distinct().Pluck("tenant_id", &tenants).Error
	return tenants, err
}

// deleteScoped soft deletes one tenant row and reports ErrNotFound when nothing matched
func deleteScoped(db *gorm.DB, tenantID string, id uuid.UUID, model interface{}) error {
	result := db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
