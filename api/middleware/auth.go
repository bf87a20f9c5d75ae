package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/api/responses"
	pkgAuth "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/auth"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/config"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
	pkgerrors "github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/errors"
	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffResolver checks that a token's subject is still a real, active account.
type StaffResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
}

// Auth validates a staff bearer token and seeds the request context with the
// claims. A missing or broken token is 401; a token whose subject no longer
// resolves to an active staff account is 403.
func Auth(cfg config.JWTConfig, resolver StaffResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if resolver != nil {
				user, err := resolver.FindByID(r.Context(), claims.UserID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "unknown staff account"))
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve staff account"))
					return
				}
				if !user.IsActive {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "staff account disabled"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
