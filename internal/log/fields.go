package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldEntryID    = "entry_id"
	FieldKind       = "kind"
	FieldEvent      = "event"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentSession = "session"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentJanitor = "janitor"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpCreate       = "create"
	OpRead         = "read"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpList         = "list"
	OpResolve      = "resolve"
	OpRevoke       = "revoke"
	OpPurge        = "purge"
	OpPublish      = "publish"
	OpShutdown     = "shutdown"
	OpStartup      = "startup"
)

// Fields provides a builder pattern for structured log fields
type Fields map[string]any

// NewFields creates a new Fields instance
func NewFields() Fields {
	return make(Fields)
}

// WithComponent adds component field
func (f Fields) WithComponent(component string) Fields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f Fields) WithError(err error) Fields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f Fields) WithOperation(op string) Fields {
	f[FieldOperation] = op
	return f
}

// WithUser adds the acting user's id
func (f Fields) WithUser(userID int64) Fields {
	f[FieldUserID] = userID
	return f
}

// WithEntry adds entry-related fields
func (f Fields) WithEntry(id int64, kind string) Fields {
	f[FieldEntryID] = id
	if kind != "" {
		f[FieldKind] = kind
	}
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f Fields) WithHTTPRequest(method, path, userAgent string) Fields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f Fields) WithHTTPResponse(statusCode int, durationMs int64) Fields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts Fields to a slice for slog
func (f Fields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
