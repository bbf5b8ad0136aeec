package entity

import "time"

// CaseRecord is an expediente entered through the tracking form ("cargado")
type CaseRecord struct {
	ID              int64     `json:"id"`
	Position        int       `json:"-"`
	Type            string    `json:"tipo"`
	CaseNumber      string    `json:"expNro"`
	AgentStatus     string    `json:"situacionAgente"`
	StartDate       string    `json:"fechaInicio"`
	InitiatedBy     string    `json:"iniciadoPor"`
	Procedure       string    `json:"tramite"`
	CurrentLocation string    `json:"dondeEsta"`
	AgentName       string    `json:"agente"`
	AgentDNI        string    `json:"dni"`
	Absences        string    `json:"inasistencias"`
	CaseStatus      string    `json:"estado"`
	Resolution      string    `json:"resolucion"`
	Notes           string    `json:"observaciones"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
