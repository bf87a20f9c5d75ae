package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/auth"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "fnt-motorgroup",
	ExpirationMinutes: 15,
}

type stubStaffResolver struct {
	users map[uuid.UUID]*models.StaffUser
	err   error
}

func (s *stubStaffResolver) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   pkgAuth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, resolver StaffResolver, authorization string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/sync", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	Auth(testJWT, resolver, logg)(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMissingToken(t *testing.T) {
	rec, seen := runAuth(t, &stubStaffResolver{}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatalf("handler must not run without credentials")
	}
}

func TestAuthGarbageToken(t *testing.T) {
	rec, _ := runAuth(t, &stubStaffResolver{}, "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a broken token, got %d", rec.Code)
	}
}

func TestAuthWrongSecret(t *testing.T) {
	other := config.JWTConfig{Secret: "other-secret", Issuer: testJWT.Issuer, ExpirationMinutes: 15}
	token, err := pkgAuth.MintAccessToken(other, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   pkgAuth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	rec, _ := runAuth(t, &stubStaffResolver{}, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a token signed with a different key, got %d", rec.Code)
	}
}

func TestAuthUnknownStaffAccount(t *testing.T) {
	rec, seen := runAuth(t, &stubStaffResolver{}, "Bearer "+mintToken(t, uuid.New()))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a valid token with no matching account, got %d", rec.Code)
	}
	if seen != nil {
		t.Fatalf("handler must not run for unknown accounts")
	}
}

func TestAuthDisabledStaffAccount(t *testing.T) {
	userID := uuid.New()
	resolver := &stubStaffResolver{users: map[uuid.UUID]*models.StaffUser{
		userID: {ID: userID, Email: "sam@fntmotorgroup.co.uk", IsActive: false},
	}}

	rec, _ := runAuth(t, resolver, "Bearer "+mintToken(t, userID))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a disabled account, got %d", rec.Code)
	}
}

func TestAuthResolverOutage(t *testing.T) {
	resolver := &stubStaffResolver{err: errors.New("db down")}
	rec, _ := runAuth(t, resolver, "Bearer "+mintToken(t, uuid.New()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when staff lookup fails, got %d", rec.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	userID := uuid.New()
	resolver := &stubStaffResolver{users: map[uuid.UUID]*models.StaffUser{
		userID: {ID: userID, Email: "sam@fntmotorgroup.co.uk", IsActive: true},
	}}

	rec, seen := runAuth(t, resolver, "Bearer "+mintToken(t, userID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if seen == nil {
		t.Fatalf("handler did not run")
	}
	if got := UserIDFromContext(seen.Context()); got != userID.String() {
		t.Fatalf("user id not seeded, got %q", got)
	}
	if role := RoleFromContext(seen.Context()); role != string(pkgAuth.RoleAdmin) {
		t.Fatalf("role not seeded, got %q", role)
	}
}
