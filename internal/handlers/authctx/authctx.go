// Package authctx carries the authenticated token subject through the
// request context
package authctx

import (
	"context"
)

type ctxKey string

const subjectKey ctxKey = "subject"

func NewContext(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok
}
