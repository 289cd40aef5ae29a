package models

// ExportFormat represents the file format for a catalog export
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// Valid reports whether f is a supported export format
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatXLSX
}

// ExportColumn defines one column of the catalog export
type ExportColumn struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"` // string, number, boolean, list
	Width       float64 `json:"-"`
}

// ProductExportColumns returns the column layout shared by the csv and xlsx exports
func ProductExportColumns() []ExportColumn {
	return []ExportColumn{
		{Name: "slug", Description: "URL-safe product identifier", Type: "string", Width: 28},
		{Name: "name", Description: "Product name", Type: "string", Width: 32},
		{Name: "price", Description: "Unit price", Type: "number", Width: 12},
		{Name: "discount", Description: "Discount, empty when none", Type: "number", Width: 12},
		{Name: "stock", Description: "Units in stock", Type: "number", Width: 10},
		{Name: "status", Description: "active or deactive", Type: "string", Width: 12},
		{Name: "isTopRated", Description: "Shown in the top rated view", Type: "boolean", Width: 12},
		{Name: "subcategorySlug", Description: "Subcategory", Type: "string", Width: 22},
		{Name: "colors", Description: "Comma-separated color ids", Type: "list", Width: 22},
		{Name: "sizes", Description: "Comma-separated size ids", Type: "list", Width: 22},
		{Name: "images", Description: "Comma-separated image references", Type: "list", Width: 48},
		{Name: "createdAt", Description: "Creation time (RFC 3339)", Type: "string", Width: 24},
	}
}
