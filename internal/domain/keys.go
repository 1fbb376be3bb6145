package domain

import "context"

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)

// Session is the authenticated caller of a request.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// WithSession stores the session values under the context keys.
func WithSession(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, KeyUserID, s.UserID)
	ctx = context.WithValue(ctx, KeyUserEmail, s.Email)
	return context.WithValue(ctx, KeyUserRole, s.Role)
}

// SessionFrom returns the session stored in ctx, if any.
func SessionFrom(ctx context.Context) (Session, bool) {
	uid, _ := ctx.Value(KeyUserID).(string)
	if uid == "" {
		return Session{}, false
	}
	email, _ := ctx.Value(KeyUserEmail).(string)
	role, _ := ctx.Value(KeyUserRole).(Role)
	return Session{UserID: uid, Email: email, Role: role}, true
}
