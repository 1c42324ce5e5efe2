package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = domain.UnauthorizedError{Msg: "invalid email or password"}

// Claims are carried in the admin access token. The JWT ID is the session id.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	User      models.PublicUser `json:"user"`
}

// AuthService signs admins in and validates their tokens against the
// in-memory session store.
type AuthService struct {
	Users     repositories.UserRepository
	Sessions  *SessionStore
	Secret    []byte
	TokenTTL  time.Duration
	RequestID string

	// FindUser overrides the repository lookup (tests).
	FindUser func(ctx context.Context, email string) (models.User, error)
}

func (s AuthService) findUser(ctx context.Context, email string) (models.User, error) {
	if s.FindUser != nil {
		return s.FindUser(ctx, email)
	}
	return s.Users.FindByEmail(ctx, email)
}

// Login checks the password, requires the admin role and opens a session.
func (s AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, domain.ValidationError{Msg: "email and password are required"}
	}

	user, err := s.findUser(ctx, email)
	if domain.IsNotFound(err) {
		return LoginResult{}, errBadCredentials
	}
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to look up user", Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("bad password user_id=%d", user.ID))
		return LoginResult{}, errBadCredentials
	}
	if !user.IsAdmin() {
		utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("non-admin rejected user_id=%d", user.ID))
		return LoginResult{}, domain.ForbiddenError{Msg: "Access denied. Admin privileges required."}
	}
	if user.Status != "" && user.Status != "active" {
		return LoginResult{}, domain.ForbiddenError{Msg: "account is " + user.Status}
	}

	sess := s.Sessions.Open(user.ID, user.Role)
	token, expires, err := s.sign(user, sess)
	if err != nil {
		s.Sessions.Close(sess.ID)
		return LoginResult{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}

	utils.LogEvent(s.RequestID, "auth", "login", fmt.Sprintf("user_id=%d", user.ID))
	return LoginResult{Token: token, ExpiresAt: expires, User: user.ToPublic()}, nil
}

func (s AuthService) sign(user models.User, sess Session) (string, time.Time, error) {
	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expires := sess.CreatedAt.Add(ttl)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	return token, expires, err
}

// Authenticate validates a bearer token and records activity on its session.
func (s AuthService) Authenticate(token string) (domain.RequestContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "missing bearer token"}
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.RequestContext{}, domain.UnauthorizedError{Msg: "token expired", Err: err}
		}
		return domain.RequestContext{}, domain.UnauthorizedError{Msg: "invalid token", Err: err}
	}

	sess, err := s.Sessions.Touch(claims.ID)
	if err != nil {
		return domain.RequestContext{}, err
	}
	return domain.RequestContext{UserID: sess.UserID, Role: sess.Role, SessionID: sess.ID}, nil
}

// Logout closes the session behind the token's JWT ID.
func (s AuthService) Logout(sessionID string) {
	if s.Sessions.Close(sessionID) {
		utils.LogEvent(s.RequestID, "auth", "logout", "session closed")
	}
}

func (s AuthService) Me(ctx context.Context, userID int64) (models.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return u.ToPublic(), nil
}

// HashPassword is used when provisioning admin accounts.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
