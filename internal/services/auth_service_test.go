package services

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func authWithUsers(t *testing.T, users ...models.User) AuthService {
	return AuthService{
		Sessions: NewSessionStore(30 * time.Minute),
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
		FindUser: func(_ context.Context, email string) (models.User, error) {
			for _, u := range users {
				if u.Email == email {
					return u, nil
				}
			}
			return models.User{}, domain.NotFoundError{Resource: "user"}
		},
	}
}

func TestLoginIssuesTokenForAdmin(t *testing.T) {
	svc := authWithUsers(t, models.User{ID: 1, Email: "admin@shop.test", PasswordHash: hashed(t, "s3cret-pass"), Role: "admin", Status: "active"})

	res, err := svc.Login(context.Background(), "admin@shop.test", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(1), res.User.ID)
	assert.Equal(t, 1, svc.Sessions.Len())

	rc, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rc.UserID)
	assert.Equal(t, "admin", rc.Role)
	assert.NotEmpty(t, rc.SessionID)
}

func TestLoginRejections(t *testing.T) {
	svc := authWithUsers(t,
		models.User{ID: 1, Email: "admin@shop.test", PasswordHash: hashed(t, "right-pass"), Role: "admin"},
		models.User{ID: 2, Email: "buyer@shop.test", PasswordHash: hashed(t, "buyer-pass"), Role: "user"},
	)
	ctx := context.Background()

	_, err := svc.Login(ctx, "admin@shop.test", "wrong-pass")
	assert.True(t, domain.IsUnauthorized(err), "wrong password: %v", err)

	_, err = svc.Login(ctx, "nobody@shop.test", "whatever")
	assert.True(t, domain.IsUnauthorized(err), "unknown user: %v", err)

	_, err = svc.Login(ctx, "buyer@shop.test", "buyer-pass")
	assert.True(t, domain.IsForbidden(err), "non-admin: %v", err)

	_, err = svc.Login(ctx, "", "")
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, 0, svc.Sessions.Len())
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := authWithUsers(t, models.User{ID: 1, Email: "a@b.c", PasswordHash: hashed(t, "password1"), Role: "admin"})
	res, err := svc.Login(context.Background(), "a@b.c", "password1")
	require.NoError(t, err)

	_, err = svc.Authenticate("")
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Authenticate(res.Token + "x")
	assert.True(t, domain.IsUnauthorized(err))

	other := svc
	other.Secret = []byte("other-secret")
	_, err = other.Authenticate(res.Token)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := authWithUsers(t, models.User{ID: 1, Email: "a@b.c", PasswordHash: hashed(t, "password1"), Role: "admin"})
	res, err := svc.Login(context.Background(), "a@b.c", "password1")
	require.NoError(t, err)

	rc, err := svc.Authenticate(res.Token)
	require.NoError(t, err)
	svc.Logout(rc.SessionID)

	_, err = svc.Authenticate(res.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthenticateExpiresIdleSession(t *testing.T) {
	svc := authWithUsers(t, models.User{ID: 1, Email: "a@b.c", PasswordHash: hashed(t, "password1"), Role: "admin"})
	clock := time.Now()
	svc.Sessions.now = func() time.Time { return clock }

	res, err := svc.Login(context.Background(), "a@b.c", "password1")
	require.NoError(t, err)

	clock = clock.Add(29 * time.Minute)
	_, err = svc.Authenticate(res.Token)
	require.NoError(t, err)

	clock = clock.Add(31 * time.Minute)
	_, err = svc.Authenticate(res.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestLoginWithRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM users WHERE LOWER\\(email\\) = \\?").WithArgs("admin@shop.test").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "status", "created_at"}).
			AddRow(5, "Owner", "admin@shop.test", hashed(t, "password1"), "admin", "active", created))

	svc := AuthService{
		Users:    repositories.UserRepository{DB: db},
		Sessions: NewSessionStore(0),
		Secret:   []byte("k"),
	}
	res, err := svc.Login(context.Background(), " Admin@Shop.test ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "Owner", res.User.Name)
	assert.Equal(t, DefaultIdleTimeout, svc.Sessions.IdleTimeout())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.True(t, domain.IsValidation(err))

	h, err := HashPassword("long-enough")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("long-enough")))
}
