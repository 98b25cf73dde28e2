package middleware

import (
	"net/http"

	"hrms/internal/domain/audit"
	"hrms/internal/transport/http/shared"
)

// Actor builds the audit identity for the current request.
func Actor(r *http.Request) audit.Actor {
	user, _ := GetUser(r.Context())
	return audit.Actor{
		UserID:    user.UserID,
		RequestID: GetRequestID(r.Context()),
		IP:        shared.ClientIP(r),
	}
}
