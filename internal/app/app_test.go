package app

import (
	"net/http/httptest"
	"testing"

	"foliocms/pkg/auth"
	"foliocms/pkg/domain"
	"foliocms/pkg/storage"
	"foliocms/pkg/store"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*App, *store.MemoryStore, *storage.MemoryBlobStore) {
	t.Helper()
	st := store.NewMemoryStore()
	blobs := storage.NewMemoryBlobStore("https://cdn.example.com")
	a, err := New(Config{Store: st, Blobs: blobs, JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, st, blobs
}

func signUp(t *testing.T, a *App, email, siteName string) *AuthResult {
	t.Helper()
	result, err := a.SignUp(SignUpInput{
		Email:    email,
		Password: "secret123",
		SiteName: siteName,
		FullName: "Test User",
	})
	if err != nil {
		t.Fatalf("sign up %s: %v", siteName, err)
	}
	return result
}

func principalFor(t *testing.T, a *App, token string) *domain.Principal {
	t.Helper()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	p := a.Authenticate(r)
	if p == nil {
		t.Fatal("expected principal for valid token")
	}
	return p
}

func TestSignUpCreatesAccountAndToken(t *testing.T) {
	a, st, _ := newTestApp(t)

	result := signUp(t, a, "alice@example.com", "alice-films")
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.User.SiteName != "alice-films" {
		t.Fatalf("site name = %q, want alice-films", result.User.SiteName)
	}

	claims := auth.VerifyToken(result.Token, testSecret)
	if claims == nil {
		t.Fatal("signup token did not verify")
	}
	if claims.UserID != result.User.ID || claims.SiteName != "alice-films" {
		t.Fatalf("claims do not match user: %+v", claims)
	}

	// The site and an empty profile exist immediately after signup.
	site, ok, _ := st.GetSite("alice-films")
	if !ok {
		t.Fatal("site row missing after signup")
	}
	if site.OwnerEmail != "alice@example.com" {
		t.Fatalf("site owner email = %q, want alice@example.com", site.OwnerEmail)
	}
	if _, ok, _ := st.GetProfile("alice-films"); !ok {
		t.Fatal("profile row missing after signup")
	}
}

func TestSignUpValidation(t *testing.T) {
	a, _, _ := newTestApp(t)

	cases := []struct {
		name string
		in   SignUpInput
	}{
		{"bad email", SignUpInput{Email: "nope", Password: "secret123", SiteName: "valid-site"}},
		{"short password", SignUpInput{Email: "a@b.com", Password: "abc", SiteName: "valid-site"}},
		{"short site name", SignUpInput{Email: "a@b.com", Password: "secret123", SiteName: "ab"}},
		{"bad site name chars", SignUpInput{Email: "a@b.com", Password: "secret123", SiteName: "My Site!"}},
	}
	for _, tc := range cases {
		if _, err := a.SignUp(tc.in); Classify(err) != ErrValidation {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSignUpRejectsDuplicates(t *testing.T) {
	a, _, _ := newTestApp(t)
	signUp(t, a, "alice@example.com", "alice-films")

	if _, err := a.SignUp(SignUpInput{
		Email: "alice@example.com", Password: "secret123", SiteName: "other-site",
	}); Classify(err) != ErrConflict {
		t.Fatalf("duplicate email: expected conflict, got %v", err)
	}
	if _, err := a.SignUp(SignUpInput{
		Email: "bob@example.com", Password: "secret123", SiteName: "alice-films",
	}); Classify(err) != ErrConflict {
		t.Fatalf("duplicate site name: expected conflict, got %v", err)
	}
}

func TestSignInChecksCredentials(t *testing.T) {
	a, _, _ := newTestApp(t)
	signUp(t, a, "alice@example.com", "alice-films")

	if _, err := a.SignIn(SignInInput{Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	// Wrong password and unknown email fail the same way.
	_, wrongPass := a.SignIn(SignInInput{Email: "alice@example.com", Password: "wrong"})
	_, unknown := a.SignIn(SignInInput{Email: "ghost@example.com", Password: "secret123"})
	if Classify(wrongPass) != ErrUnauthenticated || Classify(unknown) != ErrUnauthenticated {
		t.Fatalf("expected unauthenticated for both, got %v / %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("credential errors must not distinguish cause: %q vs %q", wrongPass, unknown)
	}
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	a, _, _ := newTestApp(t)
	result := signUp(t, a, "alice@example.com", "alice-films")

	r := httptest.NewRequest("GET", "/", nil)
	if a.Authenticate(r) != nil {
		t.Fatal("missing header must not authenticate")
	}
	r.Header.Set("Authorization", "Bearer not-a-token")
	if a.Authenticate(r) != nil {
		t.Fatal("garbage token must not authenticate")
	}
	r.Header.Set("Authorization", "Bearer "+result.Token)
	p := a.Authenticate(r)
	if p == nil || p.SiteName != "alice-films" {
		t.Fatalf("valid token principal = %+v", p)
	}
	if p.FullName != "Test User" {
		t.Fatalf("principal full name = %q, want Test User", p.FullName)
	}

	// Profile fields like customDomain come from the fresh user row, not
	// from the token that was issued before they changed.
	if _, err := a.UpdateResource(domain.KindUsers, p, result.User.ID, []byte(`{"customDomain":"alice.example"}`)); err != nil {
		t.Fatalf("set custom domain: %v", err)
	}
	if p = a.Authenticate(r); p == nil || p.CustomDomain != "alice.example" {
		t.Fatalf("principal custom domain = %+v, want alice.example", p)
	}

	// A token signed with a different secret never authenticates.
	foreign, err := auth.IssueToken(result.User.ID, "alice@example.com", "alice-films", "other-secret")
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+foreign)
	if a.Authenticate(r) != nil {
		t.Fatal("token with wrong signature must not authenticate")
	}
}

func TestUpdatePassword(t *testing.T) {
	a, _, _ := newTestApp(t)
	result := signUp(t, a, "alice@example.com", "alice-films")
	p := principalFor(t, a, result.Token)

	if err := a.UpdatePassword(p, "wrong", "newsecret"); Classify(err) != ErrForbidden {
		t.Fatalf("wrong current password: expected forbidden, got %v", err)
	}
	if err := a.UpdatePassword(p, "secret123", "short"); Classify(err) != ErrValidation {
		t.Fatalf("short new password: expected validation, got %v", err)
	}
	if err := a.UpdatePassword(p, "secret123", "newsecret"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := a.SignIn(SignInInput{Email: "alice@example.com", Password: "newsecret"}); err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
	if _, err := a.SignIn(SignInInput{Email: "alice@example.com", Password: "secret123"}); err == nil {
		t.Fatal("old password must stop working")
	}
}

func TestResetPasswordNeverRevealsAccounts(t *testing.T) {
	a, _, _ := newTestApp(t)
	signUp(t, a, "alice@example.com", "alice-films")

	if err := a.ResetPassword("alice@example.com"); err != nil {
		t.Fatalf("known email: %v", err)
	}
	if err := a.ResetPassword("ghost@example.com"); err != nil {
		t.Fatalf("unknown email must succeed identically: %v", err)
	}
}
