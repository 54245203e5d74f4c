package services

import (
	"context"
	"encoding/json"
	"fmt"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// CatalogService manages products, categories, tags and partners
type CatalogService struct {
	repo    repository.CatalogRepositoryInterface
	finance *FinanceService
	logger  *logrus.Entry
}

func NewCatalogService(repo repository.CatalogRepositoryInterface, finance *FinanceService, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		repo:    repo,
		finance: finance,
		logger:  logger.WithField("component", "catalog"),
	}
}

func specsJSON(specs map[string]interface{}) (datatypes.JSON, error) {
	if specs == nil {
		return nil, nil
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return nil, fmt.Errorf("invalid specs: %w", err)
	}
	return datatypes.JSON(data), nil
}

// ========== Products ==========

func (s *CatalogService) CreateProduct(ctx context.Context, tenantID string, req models.CreateProductRequest) (*models.Product, error) {
	specs, err := specsJSON(req.Specs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		TenantID:    tenantID,
		SKU:         req.SKU,
		Name:        req.Name,
		Unit:        req.Unit,
		Description: req.Description,
		Specs:       specs,
		Tags:        pq.StringArray(req.Tags),
		Price:       req.Price,
		Cost:        req.Cost,
		MinStock:    10,
		MaxStock:    1000,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
	}
	if product.Unit == "" {
		product.Unit = "pcs"
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		product.MaxStock = *req.MaxStock
	}
	if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) checkSupplier(ctx context.Context, tenantID string, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	supplier, err := s.repo.GetPartner(ctx, tenantID, *supplierID)
	if err != nil {
		return fmt.Errorf("supplier: %w", err)
	}
	if supplier.Type != models.PartnerTypeSupplier {
		return ErrNotSupplier
	}
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, tenantID string, id uuid.UUID) (*models.Product, error) {
	return s.repo.GetProduct(ctx, tenantID, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, int64, error) {
	return s.repo.ListProducts(ctx, tenantID, filter)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, tenantID string, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.AISummary != nil {
		product.AISummary = req.AISummary
	}
	if req.Specs != nil {
		if product.Specs, err = specsJSON(req.Specs); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		product.Tags = pq.StringArray(req.Tags)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Cost != nil {
		product.Cost = *req.Cost
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		product.MaxStock = *req.MaxStock
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
		product.Category = nil
	}
	if req.SupplierID != nil {
		if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
			return nil, err
		}
		product.SupplierID = req.SupplierID
		product.Supplier = nil
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, tenantID, id)
}

// ========== Categories and tags ==========

func (s *CatalogService) CreateCategory(ctx context.Context, tenantID string, req models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: uuid.New(), TenantID: tenantID, Name: req.Name, Icon: req.Icon}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	return s.repo.ListCategories(ctx, tenantID)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, tenantID, id)
}

func (s *CatalogService) CreateTag(ctx context.Context, tenantID, name, color string) (*models.Tag, error) {
	tag := &models.Tag{ID: uuid.New(), TenantID: tenantID, Name: name, Color: color}
	if tag.Color == "" {
		tag.Color = "#1890ff"
	}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *CatalogService) ListTags(ctx context.Context, tenantID string) ([]models.Tag, error) {
	return s.repo.ListTags(ctx, tenantID)
}

// ========== Partners ==========

// CreatePartner creates a customer or supplier. A customer with a credit limit gets its credit line set.
func (s *CatalogService) CreatePartner(ctx context.Context, tenantID string, req models.CreatePartnerRequest) (*models.Partner, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid partner type %q", req.Type)
	}
	partner := &models.Partner{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Name:          req.Name,
		Type:          req.Type,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		CreditScore:   100,
		Tags:          pq.StringArray(req.Tags),
	}
	if err := s.repo.CreatePartner(ctx, partner); err != nil {
		return nil, err
	}

	if req.CreditLimit != nil && partner.Type == models.PartnerTypeCustomer && s.finance != nil {
		if _, err := s.finance.SetCreditLimit(ctx, tenantID, partner.ID, *req.CreditLimit); err != nil {
			s.logger.WithError(err).WithField("partnerId", partner.ID).Warn("Failed to set initial credit limit")
		}
	}
	return partner, nil
}

func (s *CatalogService) GetPartner(ctx context.Context, tenantID string, id uuid.UUID) (*models.Partner, error) {
	return s.repo.GetPartner(ctx, tenantID, id)
}

func (s *CatalogService) ListPartners(ctx context.Context, tenantID string, filter models.PartnerFilter) ([]models.Partner, int64, error) {
	return s.repo.ListPartners(ctx, tenantID, filter)
}

func (s *CatalogService) UpdatePartner(ctx context.Context, tenantID string, id uuid.UUID, req models.UpdatePartnerRequest) (*models.Partner, error) {
	partner, err := s.repo.GetPartner(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.ContactPerson != nil {
		partner.ContactPerson = req.ContactPerson
	}
	if req.Phone != nil {
		partner.Phone = req.Phone
	}
	if req.Email != nil {
		partner.Email = req.Email
	}
	if req.Address != nil {
		partner.Address = req.Address
	}
	if req.CreditScore != nil {
		partner.CreditScore = *req.CreditScore
	}
	if req.Tags != nil {
		partner.Tags = pq.StringArray(req.Tags)
	}
	if err := s.repo.UpdatePartner(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *CatalogService) DeletePartner(ctx context.Context, tenantID string, id uuid.UUID) error {
	return s.repo.DeletePartner(ctx, tenantID, id)
}
