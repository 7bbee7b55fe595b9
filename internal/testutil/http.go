package testutil

import (
	"net/http"
	"net/http/httptest"

	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/domain/roles"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID             string
	FullName       string
	Email          string
	OrganizationID string
	Role           roles.Role
}

// HRAdminUser returns a TestUser with the hr_admin role in the given org.
func HRAdminUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		FullName:       "Test HR Admin",
		Email:          "hradmin@test.com",
		OrganizationID: orgID.Hex(),
		Role:           roles.HRAdmin,
	}
}

// ManagerUser returns a TestUser with the manager role in the given org.
func ManagerUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		FullName:       "Test Manager",
		Email:          "manager@test.com",
		OrganizationID: orgID.Hex(),
		Role:           roles.Manager,
	}
}

// EmployeeUser returns a TestUser with the employee role in the given org.
func EmployeeUser(orgID primitive.ObjectID) TestUser {
	return TestUser{
		ID:             primitive.NewObjectID().Hex(),
		FullName:       "Test Employee",
		Email:          "employee@test.com",
		OrganizationID: orgID.Hex(),
		Role:           roles.Employee,
	}
}

// OrglessUser returns a signed-in TestUser with no organization.
func OrglessUser() TestUser {
	return TestUser{
		ID:       primitive.NewObjectID().Hex(),
		FullName: "Test Newcomer",
		Email:    "newcomer@test.com",
	}
}

// WithUser adds a user to the request context, bypassing the session
// middleware, for testing authenticated handlers.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:             user.ID,
		Email:          user.Email,
		FullName:       user.FullName,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return WithUser(req, user)
}
