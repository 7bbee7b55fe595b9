package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/jmoreland/peopledesk/internal/app/features/errors"
	"github.com/jmoreland/peopledesk/internal/app/features/login"
	accountstore "github.com/jmoreland/peopledesk/internal/app/store/accounts"
	profilestore "github.com/jmoreland/peopledesk/internal/app/store/profiles"
	"github.com/jmoreland/peopledesk/internal/app/system/auth"
	"github.com/jmoreland/peopledesk/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	handler := login.NewHandler(accountstore.New(db), profilestore.New(db), sessionMgr, errLog, false, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleSigninPost_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	fixtures.CreateAccount(ctx, "admin@example.com", "correct-horse-battery")

	form := url.Values{
		"email":    {"admin@example.com"},
		"password": {"correct-horse-battery"},
	}

	rec := httptest.NewRecorder()
	handler.HandleSigninPost(rec, postForm("/login", form))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location: got %q, want %q", loc, "/dashboard")
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleSigninPost_WithReturnURL(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	fixtures.CreateAccount(ctx, "admin@example.com", "correct-horse-battery")

	form := url.Values{
		"email":    {"admin@example.com"},
		"password": {"correct-horse-battery"},
		"return":   {"/employees"},
	}

	rec := httptest.NewRecorder()
	handler.HandleSigninPost(rec, postForm("/login", form))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/employees" {
		t.Errorf("Location: got %q, want %q", loc, "/employees")
	}
}

func TestHandleSigninPost_EmailIsCaseInsensitive(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	fixtures.CreateAccount(ctx, "admin@example.com", "correct-horse-battery")

	form := url.Values{
		"email":    {"  Admin@Example.COM  "},
		"password": {"correct-horse-battery"},
	}

	rec := httptest.NewRecorder()
	handler.HandleSigninPost(rec, postForm("/login", form))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}

func TestHandleSigninPost_WrongPassword_NoSession(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	fixtures.CreateAccount(ctx, "admin@example.com", "correct-horse-battery")

	form := url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong"},
	}

	rec := httptest.NewRecorder()

	// The error path renders a template, which panics without a booted
	// template engine; we only care that no session cookie was issued.
	func() {
		defer func() { _ = recover() }()
		handler.HandleSigninPost(rec, postForm("/login", form))
	}()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			t.Error("expected no session cookie after failed signin")
		}
	}
}

func TestHandleSignupPost_CreatesAccountAndSignsIn(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	form := url.Values{
		"full_name":        {"Jordan Ng"},
		"email":            {"jordan@example.com"},
		"password":         {"correct-horse-battery"},
		"password_confirm": {"correct-horse-battery"},
	}

	rec := httptest.NewRecorder()
	handler.HandleSignupPost(rec, postForm("/signup", form))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/onboarding" {
		t.Errorf("Location: got %q, want %q", loc, "/onboarding")
	}

	// Account exists and the password round-trips.
	accounts := accountstore.New(fixtures.DB())
	acct, err := accounts.VerifyPassword(ctx, "jordan@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("VerifyPassword after signup: %v", err)
	}

	// Profile was written with the sanitized name.
	profiles := profilestore.New(fixtures.DB())
	p, err := profiles.GetByID(ctx, acct.ID.Hex())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p == nil || p.FullName != "Jordan Ng" {
		t.Errorf("profile full name: got %+v, want Jordan Ng", p)
	}
}

func TestHandleSignupPost_DuplicateEmail_NoSession(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx := testutil.TestContext(t)

	// Duplicate detection relies on the unique email index.
	if err := accountstore.New(fixtures.DB()).EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	fixtures.CreateAccount(ctx, "jordan@example.com", "existing-password")

	form := url.Values{
		"full_name":        {"Jordan Ng"},
		"email":            {"jordan@example.com"},
		"password":         {"correct-horse-battery"},
		"password_confirm": {"correct-horse-battery"},
	}

	rec := httptest.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		handler.HandleSignupPost(rec, postForm("/signup", form))
	}()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			t.Error("expected no session cookie after duplicate signup")
		}
	}
}
