// Package api implements the pawbase REST API using chi.
package api

import (
	"context"
	"net/http"

	"github.com/fernside/pawbase/internal/auth"
)

type ctxKey int

const sessionCtxKey ctxKey = iota

// WithAuth resolves the caller's authorization state exactly once per
// request and stores it in the request context. Handlers never re-derive
// the state themselves.
func WithAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := svc.Resolve(r.Context(), r)
			ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFrom returns the resolved session, defaulting to Unauthenticated
// when the middleware did not run (fails closed).
func sessionFrom(r *http.Request) auth.Session {
	sess, ok := r.Context().Value(sessionCtxKey).(auth.Session)
	if !ok {
		return auth.Session{State: auth.Unauthenticated}
	}
	return sess
}

// RequireAdmin gates a route on AuthenticatedAdmin: 401 without a valid
// session, 403 for a valid session without the admin grant.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch sessionFrom(r).State {
		case auth.AuthenticatedAdmin:
			next.ServeHTTP(w, r)
		case auth.AuthenticatedNonAdmin:
			writeJSON(w, http.StatusForbidden, errorBody("admin access required"))
		default:
			writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		}
	})
}
