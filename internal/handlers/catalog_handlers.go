package handlers

import (
	"net/http"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ========== Product Handlers ==========

// CreateProduct creates a new product
// POST /api/v1/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create product")
		return
	}
	respondOK(c, http.StatusCreated, product, "Product created successfully")
}

// GetProduct retrieves a product with its stock rows
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve product")
		return
	}
	respondOK(c, http.StatusOK, product, "")
}

// ListProducts supports search plus category and supplier filters
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	categoryID, ok := queryUUID(c, "categoryId")
	if !ok {
		return
	}
	supplierID, ok := queryUUID(c, "supplierId")
	if !ok {
		return
	}
	filter := models.ProductFilter{ListParams: listParams(c), CategoryID: categoryID, SupplierID: supplierID}
	products, total, err := h.catalog.ListProducts(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve products")
		return
	}
	respondList(c, products, total, filter.ListParams)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update product")
		return
	}
	respondOK(c, http.StatusOK, product, "Product updated successfully")
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete product")
		return
	}
	respondOK(c, http.StatusOK, nil, "Product deleted successfully")
}

// ========== Category and Tag Handlers ==========

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create category")
		return
	}
	respondOK(c, http.StatusCreated, category, "Category created successfully")
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve categories")
		return
	}
	respondOK(c, http.StatusOK, categories, "")
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete category")
		return
	}
	respondOK(c, http.StatusOK, nil, "Category deleted successfully")
}

type createTagRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color,omitempty" binding:"max=20"`
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req createTagRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.catalog.CreateTag(c.Request.Context(), tenantID(c), req.Name, req.Color)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create tag")
		return
	}
	respondOK(c, http.StatusCreated, tag, "")
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve tags")
		return
	}
	respondOK(c, http.StatusOK, tags, "")
}

// ========== Partner Handlers ==========

// CreatePartner creates a customer or supplier. Customers get a credit line.
func (h *CatalogHandler) CreatePartner(c *gin.Context) {
	var req models.CreatePartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	partner, err := h.catalog.CreatePartner(c.Request.Context(), tenantID(c), req)
	if err != nil {
		respondError(c, err, "CREATION_FAILED", "Failed to create partner")
		return
	}
	respondOK(c, http.StatusCreated, partner, "Partner created successfully")
}

func (h *CatalogHandler) GetPartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	partner, err := h.catalog.GetPartner(c.Request.Context(), tenantID(c), id)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve partner")
		return
	}
	respondOK(c, http.StatusOK, partner, "")
}

func (h *CatalogHandler) ListPartners(c *gin.Context) {
	filter := models.PartnerFilter{ListParams: listParams(c), Type: models.PartnerType(c.Query("type"))}
	partners, total, err := h.catalog.ListPartners(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to retrieve partners")
		return
	}
	respondList(c, partners, total, filter.ListParams)
}

func (h *CatalogHandler) UpdatePartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdatePartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	partner, err := h.catalog.UpdatePartner(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		respondError(c, err, "UPDATE_FAILED", "Failed to update partner")
		return
	}
	respondOK(c, http.StatusOK, partner, "Partner updated successfully")
}

func (h *CatalogHandler) DeletePartner(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeletePartner(c.Request.Context(), tenantID(c), id); err != nil {
		respondError(c, err, "DELETE_FAILED", "Failed to delete partner")
		return
	}
	respondOK(c, http.StatusOK, nil, "Partner deleted successfully")
}
