package shared

type ApiErrorType string

const (
	ApiErrorTypeValidation      ApiErrorType = "validation"
	ApiErrorTypeUnauthenticated ApiErrorType = "unauthenticated"
	ApiErrorTypeForbidden       ApiErrorType = "forbidden"
	ApiErrorTypeNotFound        ApiErrorType = "not_found"
	ApiErrorTypeUpstream        ApiErrorType = "upstream"

	ApiErrorTypeOther ApiErrorType = "other"
)

type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type ApiError struct {
	Type   ApiErrorType `json:"type"`
	Status int          `json:"-"`
	Msg    string       `json:"message"`

	// underlying error text, surfaced verbatim for unhandled errors
	Error string `json:"error,omitempty"`

	// only used for validation errors
	Errors []FieldError `json:"errors,omitempty"`
	Fields []string     `json:"fields,omitempty"`
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleUser   Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAuthor, RoleUser:
		return true
	}
	return false
}
