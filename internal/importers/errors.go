package importers

import "net/http"

// DomainError classifies a decode failure with an HTTP-style status so
// the boundary can surface it directly.
type DomainError struct {
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a classified decode error.
func NewDomainError(message string, status int) *DomainError {
	return &DomainError{Message: message, Status: status}
}

// ErrInvalidCSVStructure signals a watched.csv row missing one of the
// required Letterboxd columns. One bad row rejects the whole batch.
func ErrInvalidCSVStructure() *DomainError {
	return NewDomainError("Invalid CSV structure in watched.csv", http.StatusBadRequest)
}
