package errors

import "maps"

// ErrorCategory represents the broad category of an error for classification and routing.
type ErrorCategory string

const (
	// CategoryConfig represents a missing or unreadable global configuration.
	CategoryConfig        ErrorCategory = "config"
	CategoryProductConfig ErrorCategory = "product_config"
	CategoryValidation    ErrorCategory = "validation"

	// Document import failures.
	CategoryVersionFormat        ErrorCategory = "version_format"
	CategoryMissingVersionConfig ErrorCategory = "missing_version_config"
	CategoryMalformedDocument    ErrorCategory = "malformed_document"

	// Input tree and output tree failures.
	CategoryMissingProductDir ErrorCategory = "missing_product_dir"
	CategoryFileSystem        ErrorCategory = "filesystem"
	CategoryRender            ErrorCategory = "render"
	CategoryLinkCheck         ErrorCategory = "link_check"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Merge combines two contexts, with other taking precedence.
func (c ErrorContext) Merge(other ErrorContext) ErrorContext {
	if c == nil {
		return other
	}
	if other == nil {
		return c
	}
	result := make(ErrorContext)
	maps.Copy(result, c)
	maps.Copy(result, other)
	return result
}
