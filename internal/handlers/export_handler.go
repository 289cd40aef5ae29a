package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"storefront-service/internal/models"
)

const exportSheet = "Products"

// ExportProducts downloads the catalog as csv or xlsx
// @Summary Export products
// @Tags Products
// @Produce octet-stream
// @Param format query string false "csv or xlsx" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/export [get]
func (h *ProductsHandler) ExportProducts(c *gin.Context) {
	format := models.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(models.ExportFormatXLSX))))
	if !format.Valid() {
		errorJSON(c, http.StatusBadRequest, "INVALID_FORMAT", "Only csv and xlsx exports are supported")
		return
	}

	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load products for export")
		errorJSON(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export products")
		return
	}

	columns := models.ProductExportColumns()
	filename := fmt.Sprintf("products_%s.%s", time.Now().Format("20060102"), format)

	switch format {
	case models.ExportFormatCSV:
		h.writeCSV(c, columns, products, filename)
	default:
		h.writeXLSX(c, columns, products, filename)
	}
}

// exportRow renders one product in column order
func exportRow(p *models.Product) []string {
	discount := ""
	if p.Discount.Valid {
		discount = p.Discount.Decimal.StringFixed(2)
	}
	return []string{
		p.Slug,
		p.Name,
		p.Price.StringFixed(2),
		discount,
		strconv.Itoa(p.Stock),
		string(p.Status),
		strconv.FormatBool(p.IsTopRated),
		p.SubcategorySlug,
		strings.Join(p.Colors, ","),
		strings.Join(p.Sizes, ","),
		strings.Join(p.ImageURLs(), ","),
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ProductsHandler) writeCSV(c *gin.Context, columns []models.ExportColumn, products []models.Product, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		h.logger.WithError(err).Error("Failed to write csv export")
		return
	}
	for i := range products {
		if err := writer.Write(exportRow(&products[i])); err != nil {
			h.logger.WithError(err).Error("Failed to write csv export")
			return
		}
	}
}

func (h *ProductsHandler) writeXLSX(c *gin.Context, columns []models.ExportColumn, products []models.Product, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, col.Name)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(exportSheet, colName, colName, col.Width)
	}

	for r := range products {
		p := &products[r]
		values := exportRow(p)
		for i, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			// Numbers stay numeric so spreadsheets can sum them
			switch col.Name {
			case "price":
				f.SetCellValue(exportSheet, cell, p.Price.InexactFloat64())
			case "stock":
				f.SetCellValue(exportSheet, cell, p.Stock)
			case "isTopRated":
				f.SetCellValue(exportSheet, cell, p.IsTopRated)
			default:
				f.SetCellValue(exportSheet, cell, values[i])
			}
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := f.Write(c.Writer); err != nil {
		h.logger.WithError(err).Error("Failed to write xlsx export")
	}
}
