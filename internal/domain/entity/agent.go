package entity

import "time"

// Agent is a municipal employee row imported from an HR spreadsheet
type Agent struct {
	ID               int64      `json:"id"`
	DNI              string     `json:"dni"`
	Name             string     `json:"nombre"`
	Dependency       string     `json:"dependencia"`
	Secretariat      string     `json:"secretaria"`
	Grouping         string     `json:"agrupamiento"`
	Level            string     `json:"nivel"`
	EmploymentStatus string     `json:"situacionRevista"`
	HireDate         *time.Time `json:"fechaIngreso,omitempty"`
	ImportedAt       time.Time  `json:"importedAt"`
}

// CountByLabel is one bar of a pre-aggregated analytics series
type CountByLabel struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
