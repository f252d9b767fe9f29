package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
	ErrValidationFailed      = errors.New("validation failed")
	ErrBadRequest            = errors.New("bad request")
)

// Credential gate errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")
)

// Institution errors
var (
	ErrInstitutionNotFound = NewResourceNotFoundError("institution not found")
	// ErrDestinationCodeTaken is returned when another institution already owns the destination code.
	ErrDestinationCodeTaken = NewConflictError("destination code already belongs to another institution")
)

// Personnel errors
var (
	ErrPersonnelNotFound = NewResourceNotFoundError("personnel record not found")
	// ErrUnknownDestination is returned by manual create/update when no institution owns the code.
	ErrUnknownDestination = NewCustomError(ErrValidationFailed, "destination code does not match any institution")
)

// Lookup errors
var (
	ErrLookupNotFound    = NewResourceNotFoundError("lookup entry not found")
	ErrLookupNameTaken   = NewConflictError("lookup entry with this name already exists")
	ErrUnknownSpecialty  = NewCustomError(ErrValidationFailed, "specialty does not exist")
	ErrUnknownLookupKind = errors.New("unknown lookup kind")
)

// Import errors
var (
	// ErrUnreadableSpreadsheet is the batch-level failure: nothing is persisted.
	ErrUnreadableSpreadsheet = errors.New("spreadsheet could not be read")
	ErrMissingUpload         = NewBadRequestError("spreadsheet file is required")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
