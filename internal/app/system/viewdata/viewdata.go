// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
)

// SiteName is the display name used in page chrome and email subjects.
const SiteName = "PeopleDesk"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from session middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	HasOrg     bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFField template.HTML
}

// NewBaseVM creates a populated BaseVM for a page. backDefault is used for
// the back button when the request carries no better hint.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		BackURL:     backDefault,
		CurrentPath: r.URL.Path,
		CSRFField:   csrf.TemplateField(r),
	}

	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserName = u.FullName
		vm.Role = string(u.Role)
		vm.HasOrg = u.HasOrg()
	}

	return vm
}
