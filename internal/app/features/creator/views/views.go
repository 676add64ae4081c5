// internal/app/features/creator/views/views.go
package creator

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "creator",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
