package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/lendora/loan-engine/internal/domain"
	"github.com/lendora/loan-engine/internal/repository"
	"github.com/lendora/loan-engine/pkg/response"
)

type contextKey string

const accountContextKey contextKey = "account"

// HeaderAccountID carries the authenticated identity resolved upstream by
// the identity provider. This service trusts the header and only resolves
// it against its own account projection.
const HeaderAccountID = "X-Account-Id"

// IdentityMiddleware resolves the calling account and stores it on the
// request context. Requests without a resolvable identity get 401.
func IdentityMiddleware(accounts repository.AccountRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := strings.TrimSpace(r.Header.Get(HeaderAccountID))
			if accountID == "" {
				response.Unauthorized(w, "missing "+HeaderAccountID+" header")
				return
			}

			account, err := accounts.GetByID(r.Context(), accountID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					response.Unauthorized(w, "unknown account")
					return
				}
				response.InternalServerError(w, "failed to resolve account", err)
				return
			}

			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountFromContext returns the account stored by IdentityMiddleware.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*domain.Account)
	return account, ok
}
