// internal/app/features/invites/views/views.go
package invites

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "invites",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
