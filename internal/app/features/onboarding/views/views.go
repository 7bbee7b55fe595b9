// internal/app/features/onboarding/views/views.go
package onboarding

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "onboarding",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
