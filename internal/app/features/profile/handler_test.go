package profile_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	"github.com/jmoreland/peopledesk/internal/app/features/profile"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profile.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	handler := profile.NewHandler(
		profilestore.New(db),
		uierrors.NewErrorLogger(logger),
		logger,
	)
	return handler, testutil.NewFixtures(t, db)
}

func postForm(target string, form url.Values, user testutil.TestUser) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return testutil.WithUser(req, user)
}

func TestHandleUpdate_SavesProfile(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	account := fixtures.CreateAccount(ctx, "maria@acme.com", "longenough1")
	user := testutil.TestUser{ID: account.ID.Hex(), Email: "maria@acme.com"}

	form := url.Values{
		"full_name":  {"  Maria García  "},
		"avatar_url": {"https://cdn.acme.com/maria.png"},
	}
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, postForm("/profile", form, user))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d: %s", http.StatusSeeOther, rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/profile?saved=1" {
		t.Errorf("Location: got %q", loc)
	}

	p, err := profilestore.New(fixtures.DB()).GetByID(ctx, account.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p == nil {
		t.Fatal("profile not created")
	}
	if p.FullName != "Maria García" {
		t.Errorf("full name: got %q, want trimmed %q", p.FullName, "Maria García")
	}
	if p.AvatarURL != "https://cdn.acme.com/maria.png" {
		t.Errorf("avatar url: got %q", p.AvatarURL)
	}
}

func TestHandleUpdate_StripsHTMLFromName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	account := fixtures.CreateAccount(ctx, "bob@acme.com", "longenough1")
	user := testutil.TestUser{ID: account.ID.Hex(), Email: "bob@acme.com"}

	form := url.Values{"full_name": {`<script>alert(1)</script>Bob Smith`}}
	rec := httptest.NewRecorder()
	handler.HandleUpdate(rec, postForm("/profile", form, user))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	p, err := profilestore.New(fixtures.DB()).GetByID(ctx, account.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p == nil || p.FullName != "Bob Smith" {
		t.Errorf("expected stripped name %q, got %+v", "Bob Smith", p)
	}
}

func TestHandleUpdate_RejectsNonHTTPAvatarURL(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	account := fixtures.CreateAccount(ctx, "eve@acme.com", "longenough1")
	user := testutil.TestUser{ID: account.ID.Hex(), Email: "eve@acme.com"}

	form := url.Values{
		"full_name":  {"Eve"},
		"avatar_url": {"javascript:alert(1)"},
	}
	rec := httptest.NewRecorder()

	// The error path re-renders the form, which panics without a booted
	// template engine.
	func() {
		defer func() { _ = recover() }()
		handler.HandleUpdate(rec, postForm("/profile", form, user))
	}()

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rec.Code)
	}

	p, err := profilestore.New(fixtures.DB()).GetByID(ctx, account.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p != nil {
		t.Errorf("profile should not exist, got %+v", p)
	}
}
