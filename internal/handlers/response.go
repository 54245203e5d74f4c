package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/repository"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ConfigurePaging sets the page size used when a list request omits limit
func ConfigurePaging(defaultSize, maxSize int) {
	if defaultSize > 0 {
		defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		maxPageSize = maxSize
	}
}

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable is checked in order, the first match wins
var errorTable = []errorMapping{
	{repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{repository.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
	{services.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
	{services.ErrCreditFrozen, http.StatusUnprocessableEntity, "CREDIT_FROZEN"},
	{services.ErrCreditExceeded, http.StatusUnprocessableEntity, "CREDIT_EXCEEDED"},
	{services.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
	{services.ErrOpenStocktakeExists, http.StatusConflict, "INVALID_STATE"},
	{services.ErrReceivableExists, http.StatusConflict, "INVALID_STATE"},
	{services.ErrUncountedItems, http.StatusConflict, "INVALID_STATE"},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	{services.ErrAITimeout, http.StatusGatewayTimeout, "AI_TIMEOUT"},
	{services.ErrAIUnavailable, http.StatusServiceUnavailable, "AI_UNAVAILABLE"},
	{services.ErrAINotConfigured, http.StatusServiceUnavailable, "AI_NOT_CONFIGURED"},
	{services.ErrAIUnauthorized, http.StatusBadGateway, "AI_FAILED"},
	{services.ErrAIFailed, http.StatusBadGateway, "AI_FAILED"},
}

var validationErrors = []error{
	services.ErrInvalidMoveType,
	services.ErrInvalidQuantity,
	services.ErrSameWarehouse,
	services.ErrProductsRequired,
	services.ErrItemNotCounted,
	services.ErrReasonRequired,
	services.ErrEmptyOrder,
	services.ErrNotSupplier,
	services.ErrNotCustomer,
	services.ErrNothingToReceive,
	services.ErrNoSupplier,
	services.ErrOverpayment,
	services.ErrInvalidAmount,
	services.ErrInvalidPeriod,
	services.ErrUnknownReport,
	services.ErrUnknownTemplate,
	services.ErrUnsupportedFile,
	services.ErrUnknownExport,
	services.ErrEmptyImportFile,
	services.ErrMissingHeaderRow,
	services.ErrEmptyMessage,
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// respondError maps a service error to its status. Unknown errors use fallbackCode with a generic message.
func respondError(c *gin.Context, err error, fallbackCode, fallbackMessage string) {
	_ = c.Error(err)
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			abortWith(c, m.status, m.code, err.Error())
			return
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			abortWith(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
	}
	abortWith(c, http.StatusInternalServerError, fallbackCode, fallbackMessage)
}

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	resp := models.SuccessResponse{Success: true, Data: data}
	if message != "" {
		resp.Message = &message
	}
	c.JSON(status, resp)
}

func respondList(c *gin.Context, data interface{}, total int64, params models.ListParams) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success:    true,
		Data:       data,
		Pagination: models.NewPaginationMeta(params.Page, params.Limit, total),
	})
}

// bindJSON writes a VALIDATION_ERROR response and returns false when the body does not bind
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWith(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return false
	}
	return true
}

func tenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}

func userID(c *gin.Context) string {
	return c.GetString("user_id")
}

func userRoles(c *gin.Context) []string {
	if roles, ok := c.Get("user_roles"); ok {
		if list, ok := roles.([]string); ok {
			return list
		}
	}
	if role := c.GetString("user_role"); role != "" {
		return []string{role}
	}
	return nil
}

func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional uuid query parameter
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+key)
		return nil, false
	}
	return &id, true
}

// queryDate accepts YYYY-MM-DD or RFC3339
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, true
		}
	}
	abortWith(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+key+", expected YYYY-MM-DD")
	return nil, false
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// listParams reads page, limit and search. A missing page means the first page.
func listParams(c *gin.Context) models.ListParams {
	params := models.ListParams{Page: 1, Limit: defaultPageSize, Search: c.Query("search")}
	if p, err := parseInt(c.Query("page")); err == nil && p > 0 {
		params.Page = p
	}
	if l, err := parseInt(c.Query("limit")); err == nil && l > 0 {
		params.Limit = min(l, maxPageSize)
	}
	return params
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}

// bindOptionalJSON accepts an empty body for requests whose fields are all optional
func bindOptionalJSON(c *gin.Context, req interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req)
}
