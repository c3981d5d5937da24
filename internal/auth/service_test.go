package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuseats/campuseats-backend/internal/users"
	pkgAuth "github.com/campuseats/campuseats-backend/pkg/auth"
	"github.com/campuseats/campuseats-backend/pkg/auth/session"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/db/models"
	"github.com/campuseats/campuseats-backend/pkg/enums"
	pkgerrors "github.com/campuseats/campuseats-backend/pkg/errors"
	"github.com/campuseats/campuseats-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "campuseats", ExpirationMinutes: 30}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
		MinLength:        8,
	}
}

func TestRegisterStudentIssuesTokens(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newTestAuthService(t, repo, &stubSessions{})

	resp, err := svc.Register(context.Background(), enums.UserRoleStudent, RegisterInput{
		Email:     "  Student@Example.COM ",
		Password:  "supersecret",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a token pair")
	}
	if resp.User.Email != "student@example.com" {
		t.Fatalf("expected normalized email, got %q", resp.User.Email)
	}
	if resp.User.Role != enums.UserRoleStudent {
		t.Fatalf("expected student role, got %s", resp.User.Role)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("token subject does not match registered user")
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.Register(context.Background(), enums.UserRoleAdmin, RegisterInput{
		Email:    "admin@example.com",
		Password: "supersecret",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.Register(context.Background(), enums.UserRoleStudent, RegisterInput{
		Email:    "student@example.com",
		Password: "short",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "users_email_key"`)
	svc := newTestAuthService(t, repo, &stubSessions{})

	_, err := svc.Register(context.Background(), enums.UserRoleVendor, RegisterInput{
		Email:    "taken@example.com",
		Password: "supersecret",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	seedUser(t, repo, "student@example.com", "supersecret", enums.UserRoleStudent, true)
	svc := newTestAuthService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "student@example.com", Password: "wrong-password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	seedUser(t, repo, "gone@example.com", "supersecret", enums.UserRoleStudent, false)
	svc := newTestAuthService(t, repo, &stubSessions{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "gone@example.com", Password: "supersecret"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRecordsLastLogin(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	user := seedUser(t, repo, "student@example.com", "supersecret", enums.UserRoleStudent, true)
	svc := newTestAuthService(t, repo, &stubSessions{})

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Student@Example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("expected last login stamped")
	}
	if !repo.lastLoginSet[user.ID] {
		t.Fatal("expected last login persisted")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	user := seedUser(t, repo, "student@example.com", "supersecret", enums.UserRoleStudent, true)
	sessions := &stubSessions{rotatedAccessID: "jti-2", rotatedToken: "refresh-2"}
	svc := newTestAuthService(t, repo, sessions)

	access := mintExpiredToken(t, user, "jti-1")
	resp, err := svc.Refresh(context.Background(), access, "refresh-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RefreshToken != "refresh-2" {
		t.Fatalf("expected rotated refresh token, got %q", resp.RefreshToken)
	}
	if sessions.rotatedFrom != "jti-1" {
		t.Fatalf("expected rotation keyed by old jti, got %q", sessions.rotatedFrom)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID != "jti-2" {
		t.Fatalf("expected new jti, got %q", claims.ID)
	}
}

func TestRefreshInvalidRefreshToken(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	user := seedUser(t, repo, "student@example.com", "supersecret", enums.UserRoleStudent, true)
	sessions := &stubSessions{rotateErr: session.ErrInvalidRefreshToken}
	svc := newTestAuthService(t, repo, sessions)

	access := mintExpiredToken(t, user, "jti-1")
	_, err := svc.Refresh(context.Background(), access, "bogus")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	user := seedUser(t, repo, "student@example.com", "supersecret", enums.UserRoleStudent, true)
	svc := newTestAuthService(t, repo, &stubSessions{})

	err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordInput{
		OldPassword: "not-the-password",
		NewPassword: "anothersecret",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, ChangePasswordInput{
		OldPassword: "supersecret",
		NewPassword: "anothersecret",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.passwordHashes[user.ID] == "" {
		t.Fatal("expected new hash persisted")
	}
}

func TestLogoutRequiresSession(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t, newStubUserRepo(), &stubSessions{})

	err := svc.Logout(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func newTestAuthService(t *testing.T, repo userRepository, sessions sessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role enums.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	repo.users[user.ID] = user
	return user
}

func mintExpiredToken(t *testing.T, user *models.User, jti string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

type stubUserRepo struct {
	users          map[uuid.UUID]*models.User
	createErr      error
	lastLoginSet   map[uuid.UUID]bool
	passwordHashes map[uuid.UUID]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:          map[uuid.UUID]*models.User{},
		lastLoginSet:   map[uuid.UUID]bool{},
		passwordHashes: map[uuid.UUID]string{},
	}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLoginSet[id] = true
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	s.passwordHashes[id] = hash
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.users, id)
	return nil
}

type stubSessions struct {
	rotatedAccessID string
	rotatedToken    string
	rotatedFrom     string
	rotateErr       error
	revoked         []string
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotatedFrom = oldAccessID
	return s.rotatedAccessID, s.rotatedToken, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
