package middleware

import (
	"net/http"
	"strconv"

	"github.com/kaantopcuw/NightFlow/internal/pkg/session"
	"github.com/kaantopcuw/NightFlow/pkg/response"
	"github.com/kaantopcuw/NightFlow/pkg/status"
)

const organizerRole = "ORGANIZER"

// UserSession resolves the account identity injected by the gateway. The
// gateway terminates authentication and forwards the principal via X-User-*
// headers on the internal network.
type UserSession struct{}

func NewUserSessionMiddleware() *UserSession {
	return &UserSession{}
}

func (m *UserSession) account(r *http.Request) (session.Account, bool) {
	userID, err := strconv.ParseInt(r.Header.Get("X-User-Id"), 10, 64)
	if err != nil {
		return session.Account{}, false
	}

	return session.Account{
		ID:    userID,
		Name:  r.Header.Get("X-User-Name"),
		Email: r.Header.Get("X-User-Email"),
		Role:  r.Header.Get("X-User-Role"),
	}, true
}

// Verify requires an authenticated account on the request.
func (m *UserSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, ok := m.account(r)
		if !ok {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "request is not authenticated",
			})

			return
		}

		next(w, r.WithContext(session.SetAccountToCtx(r.Context(), acc)))
	}
}

// VerifyOrganizer requires an authenticated account with the ORGANIZER role.
func (m *UserSession) VerifyOrganizer(next http.HandlerFunc) http.HandlerFunc {
	return m.Verify(func(w http.ResponseWriter, r *http.Request) {
		acc, _ := session.GetAccountFromCtx(r.Context())
		if acc.Role != organizerRole {
			response.JSON(w, http.StatusForbidden, response.RESTEnvelope{
				Status:  status.FORBIDDEN,
				Message: "organizer role is required",
			})

			return
		}

		next(w, r)
	})
}
