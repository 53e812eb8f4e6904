package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
// Errors default to fatal: a build has no recoverable error class.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityFatal,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithCause sets the underlying error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// WithContextMap adds multiple context values.
func (b *ErrorBuilder) WithContextMap(ctx ErrorContext) *ErrorBuilder {
	b.context = b.context.Merge(ctx)
	return b
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for the build's error taxonomy.

// ConfigError creates a global configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message)
}

// ProductConfigError creates a per-product configuration error.
func ProductConfigError(message string) *ErrorBuilder {
	return NewError(CategoryProductConfig, message)
}

// ValidationError creates an invalid-input error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message)
}

// VersionFormatError creates an error for a document file name that does not carry a version.
func VersionFormatError(message string) *ErrorBuilder {
	return NewError(CategoryVersionFormat, message)
}

// MissingVersionConfigError creates an error for a document whose release date was never declared.
func MissingVersionConfigError(message string) *ErrorBuilder {
	return NewError(CategoryMissingVersionConfig, message)
}

// MalformedDocumentError creates an error for a structurally invalid document.
func MalformedDocumentError(message string) *ErrorBuilder {
	return NewError(CategoryMalformedDocument, message)
}

// MissingProductDirError creates an error for a configured product without an input directory.
func MissingProductDirError(message string) *ErrorBuilder {
	return NewError(CategoryMissingProductDir, message)
}

// FileSystemError creates a filesystem error.
func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message)
}

// RenderError creates a page rendering error.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message)
}

// LinkCheckError creates an error reporting broken links in a rendered tree.
func LinkCheckError(message string) *ErrorBuilder {
	return NewError(CategoryLinkCheck, message)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message)
}
