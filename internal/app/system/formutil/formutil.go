// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a form submission fails validation, the form is re-rendered with
// the user's previously entered values echoed back and an error message
// explaining what went wrong.
package formutil

import (
	"html/template"

	"github.com/getmeachai/getmeachai/internal/app/system/viewdata"
)

// Base contains common fields for form pages that can be embedded in form
// data structs. It carries the page chrome plus an inline error slot.
type Base struct {
	viewdata.BaseVM
	Error template.HTML
}

// SetError sets the inline error message. The message must be plain text;
// it is rendered inside the form's error region.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}
