package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/daybook-app/core/internal/database"
	"github.com/daybook-app/core/internal/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()

	svc := NewService(testDB(t))

	u, err := svc.Signup(&SignupDTO{Email: "Ada@Example.COM", Password: "correct horse", Name: "Ada"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("Email = %q, want lowercased", u.Email)
	}
	if u.Password == "correct horse" {
		t.Fatalf("password stored in plain text")
	}

	token, logged, err := svc.Login("ada@example.com", "correct horse", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatalf("Login() returned empty token")
	}
	if logged.LastLogin == nil || time.Since(*logged.LastLogin) > time.Minute {
		t.Fatalf("LastLogin = %v, want recent", logged.LastLogin)
	}

	if _, _, err := svc.Login("ada@example.com", "wrong", "127.0.0.1", "test"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("nobody@example.com", "correct horse", "127.0.0.1", "test"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(testDB(t))

	if _, err := svc.Signup(&SignupDTO{Email: "ada@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}
	if _, err := svc.Signup(&SignupDTO{Email: "ada@example.com", Password: "another pass"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("second Signup() error = %v, want ErrEmailTaken", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	svc := NewService(db)

	u, err := svc.Signup(&SignupDTO{Email: "ada@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	token, _, err := svc.Login("ada@example.com", "correct horse", "127.0.0.1", "test")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := middleware.ValidateTokenClaims(db, token)
	if err != nil {
		t.Fatalf("token invalid right after login: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("claims.UserID = %q, want %q", claims.UserID, u.ID)
	}

	if err := svc.Logout(claims.UserID, claims.SessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := middleware.ValidateTokenClaims(db, token); err == nil {
		t.Fatalf("token still valid after logout")
	}

	// Revoking again reports the session as gone.
	if err := svc.Logout(claims.UserID, claims.SessionID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second Logout() error = %v, want ErrRecordNotFound", err)
	}
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	svc := NewService(testDB(t))

	u, err := svc.Signup(&SignupDTO{Email: "ada@example.com", Password: "correct horse", Name: "Ada"})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	got, err := svc.GetByID(u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil || got.Name != "Ada" {
		t.Fatalf("GetByID() = %+v", got)
	}

	missing, err := svc.GetByID("00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GetByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Fatalf("GetByID(missing) = %+v, want nil", missing)
	}
}
