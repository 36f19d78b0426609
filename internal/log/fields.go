package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldKey         = "key"
	FieldEntryID     = "entry_id"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCount       = "count"
	FieldBackend     = "backend"
	FieldPayloadSize = "payload_bytes"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
	ComponentExport  = "export"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpPersist = "persist"
	OpAdd     = "add"
	OpDelete  = "delete"
	OpClear   = "clear"
	OpExport  = "export"
	OpStartup = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeDecode        = "decode_error"
	ErrorTypeEncode        = "encode_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds error and error type fields
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithKey adds the storage key
func (f LogFields) WithKey(key string) LogFields {
	f[FieldKey] = key
	return f
}

// WithEntry adds entry-related fields
func (f LogFields) WithEntry(id, kind, category, date, amount string) LogFields {
	f[FieldEntryID] = id
	f[FieldKind] = kind
	f[FieldCategory] = category
	f[FieldDate] = date
	f[FieldAmount] = amount
	return f
}

// WithCount adds the collection size
func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
