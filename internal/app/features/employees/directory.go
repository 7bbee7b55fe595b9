// internal/app/features/employees/directory.go
package employees

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/app/system/normalize"
	"github.com/jmoreland/peopledesk/internal/app/system/timeouts"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"github.com/jmoreland/peopledesk/internal/domain/models"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type directoryRow struct {
	Name       string
	Email      string
	Role       roles.Role
	Department string
	AvatarURL  string
}

type directoryData struct {
	viewdata.BaseVM
	OrgName   string
	Search    string
	Rows      []directoryRow
	Total     int
	CanInvite bool
}

// ServeDirectory handles GET /employees. The route guard guarantees a
// manager-or-above member of an organization.
func (h *Handler) ServeDirectory(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	orgID, err := primitive.ObjectIDFromHex(u.OrganizationID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "parse org id", err, "A server error occurred.", "/dashboard")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, err := h.Organizations.GetByID(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load organization", err, "A server error occurred.", "/dashboard")
		return
	}

	entries, err := h.Memberships.ListDirectory(ctx, orgID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list directory", err, "Could not load the employee directory.", "/dashboard")
		return
	}

	search := normalize.QueryParam(r.URL.Query().Get("q"))
	rows := buildRows(entries, search)

	templates.Render(w, r, "employees_directory", directoryData{
		BaseVM:    viewdata.NewBaseVM(r, "Employees", "/dashboard"),
		OrgName:   org.Name,
		Search:    search,
		Rows:      rows,
		Total:     len(entries),
		CanInvite: u.Role == roles.HRAdmin,
	})
}

// buildRows flattens directory entries and applies the optional search
// filter against folded name, email, and department.
func buildRows(entries []models.DirectoryEntry, search string) []directoryRow {
	needle := text.Fold(search)

	rows := make([]directoryRow, 0, len(entries))
	for _, e := range entries {
		row := directoryRow{
			Name:       e.DisplayName(),
			Email:      e.Account.Email,
			Role:       e.Role,
			Department: e.Department,
			AvatarURL:  e.Profile.AvatarURL,
		}
		if needle != "" && !rowMatches(row, needle) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func rowMatches(row directoryRow, needle string) bool {
	return strings.Contains(text.Fold(row.Name), needle) ||
		strings.Contains(text.Fold(row.Email), needle) ||
		strings.Contains(text.Fold(row.Department), needle)
}

func (h *Handler) logWarn(msg string, fields ...zap.Field) {
	if h.Log != nil {
		h.Log.Warn(msg, fields...)
	}
}
