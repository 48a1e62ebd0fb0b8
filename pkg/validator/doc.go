// Package validator provides the rule-based input validation applied at
// service boundaries. Every failed rule yields a field-scoped,
// user-displayable message.
package validator
