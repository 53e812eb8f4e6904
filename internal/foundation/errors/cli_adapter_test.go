package errors

import (
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "config missing", err: ConfigError("no config").Build(), expected: 3},
		{name: "missing product dir", err: MissingProductDirError("no dir").Build(), expected: 4},
		{name: "product config", err: ProductConfigError("no product.toml").Build(), expected: 5},
		{name: "version format", err: VersionFormatError("bad name").Build(), expected: 6},
		{name: "missing version config", err: MissingVersionConfigError("no date").Build(), expected: 6},
		{name: "malformed document", err: MalformedDocumentError("bad xml").Build(), expected: 6},
		{name: "broken links", err: LinkCheckError("broken").Build(), expected: 9},
		{name: "filesystem", err: FileSystemError("exists").Build(), expected: 11},
		{name: "render", err: RenderError("template").Build(), expected: 11},
		{name: "validation", err: ValidationError("bad flag").Build(), expected: 2},
		{name: "internal", err: InternalError("bug").Build(), expected: 10},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		err      error
		contains []string
	}{
		{
			name:     "nil error",
			err:      nil,
			contains: nil,
		},
		{
			name: "classified error names the artifact",
			err: MissingVersionConfigError("release date not declared").
				WithContext("product", "rhel8").
				WithContext("version", "v1r3").
				Build(),
			contains: []string{"missing_version_config", "release date not declared", "product=rhel8", "version=v1r3"},
		},
		{
			name:    "verbose mode includes cause",
			verbose: true,
			err: WrapError(&customError{msg: "EOF"}, CategoryMalformedDocument, "cannot parse").
				Build(),
			contains: []string{"cannot parse", "EOF"},
		},
		{
			name:     "unclassified error",
			err:      &customError{msg: "unknown error"},
			contains: []string{"Error: unknown error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewCLIErrorAdapter(tt.verbose, slog.Default())
			got := adapter.FormatError(tt.err)
			if tt.contains == nil && got != "" {
				t.Fatalf("FormatError() = %q, want empty string", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

// customError is a test helper for unclassified errors
type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
