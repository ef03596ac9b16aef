package middleware

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/sessionkit/core/session"
)

type sessionContextKey struct{}

type sessionInfo struct {
	record session.Record
	state  session.State
}

func withSession(ctx context.Context, rec session.Record, state session.State) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sessionInfo{record: rec, state: state})
}

// SessionFromRequest returns the session resolved by the Gateway for this
// request. Outside the gateway, or for anonymous requests, the state is
// Unauthenticated and the record is zero.
func SessionFromRequest(r *http.Request) (session.Record, session.State) {
	info, ok := r.Context().Value(sessionContextKey{}).(sessionInfo)
	if !ok {
		return session.Record{}, session.Unauthenticated
	}
	return info.record, info.state
}
