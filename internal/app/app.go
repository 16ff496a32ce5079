package app

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"foliocms/internal/ratelimit"
	"foliocms/internal/util"
	"foliocms/pkg/auth"
	"foliocms/pkg/domain"
	"foliocms/pkg/storage"
	"foliocms/pkg/store"
)

var siteNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Config wires the application core to its dependencies.
type Config struct {
	Store     store.Store
	Blobs     storage.BlobStore
	JWTSecret string

	// Optional per-IP limiters for the credential endpoints. Nil disables
	// limiting.
	SignupLimiter *ratelimit.FixedWindowLimiter
	SigninLimiter *ratelimit.FixedWindowLimiter
}

// App implements the tenant-scoped operations behind the HTTP layer.
type App struct {
	store         store.Store
	blobs         storage.BlobStore
	jwtSecret     string
	signupLimiter *ratelimit.FixedWindowLimiter
	signinLimiter *ratelimit.FixedWindowLimiter

	resources map[domain.Kind]resource
}

// New validates the configuration and builds the application core.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Blobs == nil {
		return nil, errors.New("blob store is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	a := &App{
		store:         cfg.Store,
		blobs:         cfg.Blobs,
		jwtSecret:     cfg.JWTSecret,
		signupLimiter: cfg.SignupLimiter,
		signinLimiter: cfg.SigninLimiter,
	}
	a.resources = buildResources(a)
	return a, nil
}

// Authenticate resolves the bearer token on a request to a live principal.
// It returns nil for missing, malformed, expired, or orphaned tokens.
func (a *App) Authenticate(r *http.Request) *domain.Principal {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	claims := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "), a.jwtSecret)
	if claims == nil {
		return nil
	}
	// Re-read the user so deletions and pro/admin flag changes take effect
	// before token expiry.
	user, ok, err := a.store.GetUserByID(claims.UserID)
	if err != nil || !ok {
		return nil
	}
	return &domain.Principal{
		UserID:       user.ID,
		Email:        user.Email,
		SiteName:     user.SiteName,
		FullName:     user.FullName,
		IsAdmin:      user.IsAdmin,
		IsPro:        user.IsPro,
		CustomDomain: user.CustomDomain,
	}
}

// SignUpInput carries the fields of a signup request.
type SignUpInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	SiteName string `json:"siteName"`
	FullName string `json:"fullName"`
}

// AuthResult is returned by signup and signin.
type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// SignUp provisions a user, its site, and an empty profile, and returns a
// signed session token.
func (a *App) SignUp(in SignUpInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	siteName := strings.ToLower(strings.TrimSpace(in.SiteName))
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("a valid email is required")
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, validationError("%s", err.Error())
	}
	if len(siteName) < 3 || !siteNamePattern.MatchString(siteName) {
		return nil, validationError("site name must be at least 3 characters of lowercase letters, digits, and hyphens")
	}

	if taken, err := a.store.HasUserEmail(email); err != nil {
		return nil, internalError(err)
	} else if taken {
		return nil, conflictError("email is already registered")
	}
	if taken, err := a.store.HasSite(siteName); err != nil {
		return nil, internalError(err)
	} else if taken {
		return nil, conflictError("site name is already taken")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internalError(err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewID(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		SiteName:     siteName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	site := domain.Site{
		ID:         siteName,
		OwnerID:    user.ID,
		OwnerEmail: email,
		Template:   "default",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	profile := domain.Profile{
		SiteID:         siteName,
		FullName:       user.FullName,
		ShowInstagram:  true,
		ShowLinkedIn:   true,
		ShowIMDB:       true,
		ShowArtStation: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.store.CreateAccount(user, site, profile); err != nil {
		return nil, internalError(err)
	}

	token, err := auth.IssueToken(user.ID, user.Email, user.SiteName, a.jwtSecret)
	if err != nil {
		return nil, internalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// SignInInput carries the fields of a signin request.
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn checks credentials and returns a fresh session token. Unknown
// emails and wrong passwords produce the same error.
func (a *App) SignIn(in SignInInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, validationError("email and password are required")
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return nil, internalError(err)
	}
	if !ok || !auth.CheckPassword(in.Password, user.PasswordHash) {
		return nil, &Error{Kind: ErrUnauthenticated, Message: "invalid email or password"}
	}
	token, err := auth.IssueToken(user.ID, user.Email, user.SiteName, a.jwtSecret)
	if err != nil {
		return nil, internalError(err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// UpdatePassword rotates a user's password after checking the current one.
func (a *App) UpdatePassword(principal *domain.Principal, current, next string) error {
	if principal == nil {
		return unauthenticatedError()
	}
	if err := auth.ValidatePassword(next); err != nil {
		return validationError("%s", err.Error())
	}
	user, ok, err := a.store.GetUserByID(principal.UserID)
	if err != nil {
		return internalError(err)
	}
	if !ok {
		return unauthenticatedError()
	}
	if !auth.CheckPassword(current, user.PasswordHash) {
		return &Error{Kind: ErrForbidden, Message: "current password is incorrect"}
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return internalError(err)
	}
	if err := a.store.SetUserPassword(user.ID, hash); err != nil {
		return internalError(err)
	}
	return nil
}

// ResetPassword acknowledges a reset request. It deliberately does not
// reveal whether the email exists.
func (a *App) ResetPassword(email string) error {
	if strings.TrimSpace(email) == "" {
		return validationError("email is required")
	}
	return nil
}

// AllowSignup reports whether the caller IP is within the signup rate limit.
func (a *App) AllowSignup(ip string) bool {
	return a.signupLimiter.Allow("signup:" + ip)
}

// AllowSignin reports whether the caller IP is within the signin rate limit.
func (a *App) AllowSignin(ip string) bool {
	return a.signinLimiter.Allow("signin:" + ip)
}
