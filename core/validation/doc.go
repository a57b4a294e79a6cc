// Package validation checks configuration and API requests with
// go-playground/validator, reporting failures per field.
package validation
