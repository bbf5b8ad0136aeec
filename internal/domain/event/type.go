package event

// Type identifies the type of domain event
type Type string

const (
	// TypeCasesChanged fires after any write to the loaded expedientes grid
	TypeCasesChanged Type = "cases.changed"
	// TypeReconciliationCompleted fires after a Procesar run is stored
	TypeReconciliationCompleted Type = "reconciliation.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeCasesChanged, TypeReconciliationCompleted:
		return true
	default:
		return false
	}
}
