package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"erp-service/internal/models"
	"erp-service/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DataIOHandler serves import templates, file imports and exports
type DataIOHandler struct {
	dataio   *services.DataIOService
	maxBytes int64
}

func NewDataIOHandler(dataio *services.DataIOService, maxBytes int64) *DataIOHandler {
	return &DataIOHandler{dataio: dataio, maxBytes: maxBytes}
}

// GetImportTemplate returns the template of an import kind
// GET /api/v1/import/:kind/template?format=json|csv|xlsx
func (h *DataIOHandler) GetImportTemplate(c *gin.Context) {
	kind := c.Param("kind")
	template, err := services.Template(kind)
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to load template")
		return
	}

	format := c.DefaultQuery("format", "json")
	var buf bytes.Buffer
	switch format {
	case services.FormatCSV:
		err = services.WriteTemplateCSV(&buf, template)
	case services.FormatXLSX:
		err = services.WriteTemplateXLSX(&buf, template)
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "template": template})
		return
	}
	if err != nil {
		respondError(c, err, "FETCH_FAILED", "Failed to render template")
		return
	}
	sendFile(c, buf.Bytes(), format, fmt.Sprintf("%s_import_template.%s", kind, format))
}

// Import applies a CSV or Excel file
// POST /api/v1/import/:kind (multipart: file, validateOnly, updateExisting)
func (h *DataIOHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abortWith(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file")
		return
	}
	defer file.Close()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		respondError(c, fmt.Errorf("%w: %d bytes", services.ErrFileTooLarge, header.Size), "PARSE_ERROR", "File too large")
		return
	}

	opts := services.ImportOptions{
		ValidateOnly:   c.DefaultPostForm("validateOnly", "false") == "true",
		UpdateExisting: c.DefaultPostForm("updateExisting", "false") == "true",
	}

	rows, err := services.ParseFile(file, header.Filename)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "PARSE_ERROR", err.Error())
		return
	}

	result, err := h.dataio.Import(c.Request.Context(), tenantID(c), userID(c), c.Param("kind"), rows, opts)
	if err != nil {
		respondError(c, err, "IMPORT_FAILED", "Failed to import file")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export downloads a table as CSV or XLSX
// GET /api/v1/export/:kind?format=csv|xlsx
func (h *DataIOHandler) Export(c *gin.Context) {
	kind := c.Param("kind")
	format := c.DefaultQuery("format", services.FormatXLSX)

	var buf bytes.Buffer
	if err := h.dataio.Export(c.Request.Context(), tenantID(c), kind, format, &buf); err != nil {
		respondError(c, err, "EXPORT_FAILED", "Failed to export data")
		return
	}
	sendFile(c, buf.Bytes(), format, services.ExportFilename(kind, format, time.Now()))
}

func sendFile(c *gin.Context, data []byte, format, filename string) {
	contentType := "text/csv"
	if format == services.FormatXLSX {
		contentType = xlsxContentType
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// ImportKinds lists the accepted import and export kinds
func (h *DataIOHandler) ImportKinds(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{
		"import": []string{models.ImportProduct, models.ImportPartner, models.ImportStock},
		"export": []string{
			models.ExportProducts,
			models.ExportPartners,
			models.ExportStock,
			models.ExportOrders,
			models.ExportReceivables,
			models.ExportInventoryLogs,
		},
	}, "")
}
