// Package auth resolves the caller's authorization state from a session
// token and a role lookup. The state is derived freshly per request and
// never cached across requests.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fernside/pawbase/internal/store"
)

// State is the per-request authorization state.
type State int

const (
	Unauthenticated State = iota
	AuthenticatedNonAdmin
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case AuthenticatedNonAdmin:
		return "authenticated"
	case AuthenticatedAdmin:
		return "admin"
	default:
		return "unauthenticated"
	}
}

// RoleAdmin is the role grant required for admin access.
const RoleAdmin = "admin"

// SessionCookie is the name of the HTTP cookie carrying the session token.
const SessionCookie = "pawbase_session"

// ErrInvalidCredentials is returned by Login on an unknown email or a
// password mismatch; callers must not distinguish the two.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is a stored identity (password hash never leaves this package).
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the resolved authorization state for one request.
type Session struct {
	State State
	User  *User // nil when Unauthenticated
}

// Service issues and verifies session tokens and looks up role grants.
type Service struct {
	db     *store.DB
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth service. The secret signs HS256 session
// tokens; ttl bounds their lifetime.
func NewService(db *store.DB, secret string, ttl time.Duration) *Service {
	return &Service{db: db, secret: []byte(secret), ttl: ttl}
}

// TTL returns the session lifetime, used for the cookie max-age.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login verifies email+password and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, hash, err := s.userByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, user, nil
}

// CreateUser stores a new user with a bcrypt-hashed password and grants
// the given roles.
func (s *Service) CreateUser(ctx context.Context, email, password string, roles ...string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &User{ID: uuid.NewString(), Email: email, CreatedAt: time.Now()}
	_, err = s.db.Conn().ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, string(hash), user.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	for _, role := range roles {
		if _, err := s.db.Conn().ExecContext(ctx,
			"INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)",
			user.ID, role); err != nil {
			return nil, fmt.Errorf("auth: grant role: %w", err)
		}
	}
	return user, nil
}

// EnsureAdmin seeds the bootstrap admin account if the email is unknown.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, _, err := s.userByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("auth: check admin: %w", err)
	}
	_, err = s.CreateUser(ctx, email, password, RoleAdmin)
	return err
}

// Resolve derives the authorization state for a request. Every failure
// path fails closed: bad token means Unauthenticated, a role-lookup error
// or missing grant means AuthenticatedNonAdmin.
func (s *Service) Resolve(ctx context.Context, r *http.Request) Session {
	token := tokenFromRequest(r)
	if token == "" {
		return Session{State: Unauthenticated}
	}
	userID, err := s.verifyToken(token)
	if err != nil {
		return Session{State: Unauthenticated}
	}
	user, err := s.userByID(ctx, userID)
	if err != nil {
		return Session{State: Unauthenticated}
	}
	admin, err := s.hasRole(ctx, userID, RoleAdmin)
	if err != nil || !admin {
		return Session{State: AuthenticatedNonAdmin, User: user}
	}
	return Session{State: AuthenticatedAdmin, User: user}
}

func (s *Service) verifyToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("auth: token missing subject")
	}
	return sub, nil
}

func (s *Service) userByEmail(ctx context.Context, email string) (*User, string, error) {
	var u User
	var hash, createdAt string
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		email).Scan(&u.ID, &u.Email, &hash, &createdAt)
	if err != nil {
		return nil, "", err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &u, hash, nil
}

func (s *Service) userByID(ctx context.Context, id string) (*User, error) {
	var u User
	var createdAt string
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT id, email, created_at FROM users WHERE id = ?",
		id).Scan(&u.ID, &u.Email, &createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &u, nil
}

func (s *Service) hasRole(ctx context.Context, userID, role string) (bool, error) {
	var one int
	err := s.db.Conn().QueryRowContext(ctx,
		"SELECT 1 FROM user_roles WHERE user_id = ? AND role = ?",
		userID, role).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// tokenFromRequest prefers the Authorization header over the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
