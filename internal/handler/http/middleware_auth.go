package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-time-sync/internal/app"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/internal/utils"
)

// auth is an HTTP middleware that enforces bearer token authentication.
//
// It extracts the token from the "Authorization" header, validates it via
// [service.AuthService.ParseToken] and stores the user id in the request
// context under [utils.UserIDCtxKey]. Missing, malformed, expired or invalid
// tokens are answered with 401. A valid token of an account this server does
// not host is answered with 403.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Err(err).Msg("error occurred during parsing token")
			http.Error(w, app.MsgTokenIsExpiredOrInvalid, http.StatusUnauthorized)
			return
		}

		if token.UserID != store.SingletonID {
			log.Err(ErrForeignAccount).Int64("user_id", token.UserID).Send()
			http.Error(w, ErrForeignAccount.Error(), http.StatusForbidden)
			return
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)
		userLog := log.With().Int64("user_id", token.UserID).Logger()

		next.ServeHTTP(w, r.WithContext(userLog.WithContext(ctx)))
	})
}
