package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/codetrack-app/codetrack/internal/server/auth"
	"github.com/codetrack-app/codetrack/internal/server/users"
)

type ctxKey int

const userKey ctxKey = iota

// bearerAuth verifies the Authorization header and loads the subject user.
// Missing scheme, bad signature, expiry, and an unknown subject all read the
// same to the client: 401.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerScheme) {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, common.BearerScheme), []byte(s.config.SecretKey))
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser returns the user the middleware attached to the context.
func currentUser(ctx context.Context) *users.User {
	u, _ := ctx.Value(userKey).(*users.User)
	return u
}
