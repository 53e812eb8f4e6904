// Package errors provides the classified error primitives used across stigaview.
//
// Every fatal condition of a site build is expressed as a ClassifiedError whose
// category identifies the failure class (configuration, document import,
// filesystem, ...) and whose context names the offending artifact. The CLI
// adapter turns a category into a process exit code.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryMalformedDocument, "description is not parseable").
//		WithContext("product", "rhel8").
//		WithContext("control", "RHEL-08-010010").
//		WithCause(parseErr).
//		Build()
package errors
