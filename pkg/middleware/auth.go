package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"eventy/pkg/logger"
	"eventy/pkg/model"
)

const principalKey contextKey = "principal"

// Principal is the resolved identity attached to authenticated requests.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// TokenVerifier resolves a bearer token into a Principal.
type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Authenticated guards a route: requests without a valid bearer token are
// rejected with 401 before the handler runs.
func Authenticated(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, ok := resolvePrincipal(w, r, verifier, log)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, *principal)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// AdminOnly guards a route: the caller must be authenticated and carry the
// admin role.
func AdminOnly(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	authenticated := Authenticated(verifier, log)
	return func(next httprouter.Handle) httprouter.Handle {
		return authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, _ := PrincipalFromContext(r.Context())
			if !principal.IsAdmin() {
				log.Warn("Admin route rejected",
					"request_id", requestIDFromContext(r.Context()),
					"user_id", principal.UserID,
					"path", r.URL.Path,
				)
				writeAuthError(w, http.StatusForbidden, "Not authorized")
				return
			}

			next(w, r, ps)
		})
	}
}

func resolvePrincipal(w http.ResponseWriter, r *http.Request, verifier TokenVerifier, log *logger.Logger) (*Principal, bool) {
	token := extractBearerToken(r)
	if token == "" {
		writeAuthError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
		return nil, false
	}

	principal, err := verifier.Verify(token)
	if err != nil {
		log.Warn("Token verification failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}

	return principal, true
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeAuthError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
