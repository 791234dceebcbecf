package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tradzyhq/tradzy-backend/api/responses"
	"github.com/tradzyhq/tradzy-backend/pkg/db/models"
	"github.com/tradzyhq/tradzy-backend/pkg/enums"
	pkgerrors "github.com/tradzyhq/tradzy-backend/pkg/errors"
	"github.com/tradzyhq/tradzy-backend/pkg/logger"
)

// RoleLookup resolves the stored account for a user id.
type RoleLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RequireRole gates a route group on the role stored in the database,
// not the one baked into the token. A role change or account deletion
// takes effect on the next request, without waiting for token expiry.
func RequireRole(users RoleLookup, logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	allowed := make(map[enums.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			account, err := users.FindByID(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading account"))
				return
			}
			if account == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists"))
				return
			}
			if _, ok := allowed[account.Role]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}

			// The stored role wins over the token claim.
			ctx := WithRole(r.Context(), account.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
