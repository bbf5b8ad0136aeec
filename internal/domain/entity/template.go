package entity

import "time"

// ColumnMapping binds a spreadsheet column header to a dataset field
type ColumnMapping struct {
	Column   string `json:"column"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
	DataType string `json:"dataType"`
}

// Template describes how to import an Excel file into a dataset
type Template struct {
	ID          int64           `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Dataset     string          `json:"dataset"`
	HeaderRow   int             `json:"headerRow"`
	Mappings    []ColumnMapping `json:"mappings"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
