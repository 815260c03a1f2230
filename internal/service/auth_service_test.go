package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/amt-results-api/internal/models"
	appErrors "github.com/noah-isme/amt-results-api/pkg/errors"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, sql.ErrNoRows
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

type stubAuthStudentRepo struct {
	student *models.Student
}

func (s *stubAuthStudentRepo) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	if s.student == nil || s.student.StudentID != studentID {
		return nil, sql.ErrNoRows
	}
	return s.student, nil
}

type stubTokenRepo struct {
	tokens map[string]*models.RefreshToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (s *stubTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	s.tokens[token.Token] = token
	return nil
}

func (s *stubTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := s.tokens[token]; ok && !stored.Revoked {
		return stored, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubTokenRepo) Revoke(ctx context.Context, id string) error {
	for _, stored := range s.tokens {
		if stored.ID == id {
			stored.Revoked = true
		}
	}
	return nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthService(t *testing.T, users *stubUserRepo, students *stubAuthStudentRepo, tokens *stubTokenRepo) *AuthService {
	t.Helper()
	return NewAuthService(users, students, tokens, nil, nil, AuthConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "amt-results-api",
	})
}

func TestAuthServiceLogin(t *testing.T) {
	users := &stubUserRepo{user: &models.User{
		ID: "u-1", Username: "admin", FullName: "Admin", Role: models.RoleAdmin,
		PasswordHash: hash(t, "adminpw"), Active: true,
	}}
	svc := newAuthService(t, users, &stubAuthStudentRepo{}, newStubTokenRepo())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "adminpw"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	claims := &models.JWTClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginBadPassword(t *testing.T) {
	users := &stubUserRepo{user: &models.User{
		ID: "u-1", Username: "admin", PasswordHash: hash(t, "adminpw"),
	}}
	svc := newAuthService(t, users, &stubAuthStudentRepo{}, newStubTokenRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newAuthService(t, &stubUserRepo{}, &stubAuthStudentRepo{}, newStubTokenRepo())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceStudentLoginNormalizesID(t *testing.T) {
	students := &stubAuthStudentRepo{student: &models.Student{
		StudentID: "232015", Name: "Kim", PasswordHash: hash(t, "pw"),
	}}
	svc := newAuthService(t, &stubUserRepo{}, students, newStubTokenRepo())

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: " 232015 ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "232015", resp.User.ID)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
}

func TestAuthServiceRefreshTokenRotates(t *testing.T) {
	students := &stubAuthStudentRepo{student: &models.Student{
		StudentID: "232015", Name: "Kim", PasswordHash: hash(t, "pw"),
	}}
	tokens := newStubTokenRepo()
	svc := newAuthService(t, &stubUserRepo{}, students, tokens)

	login, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: "232015", Password: "pw"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the consumed token is revoked
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceRefreshTokenExpired(t *testing.T) {
	tokens := newStubTokenRepo()
	tokens.tokens["expired"] = &models.RefreshToken{
		ID: "t-1", UserID: "232015", Role: models.RoleStudent, Token: "expired",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := newAuthService(t, &stubUserRepo{}, &stubAuthStudentRepo{}, tokens)

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "expired"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
