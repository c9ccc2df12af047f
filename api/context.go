package api

import (
	"context"

	"github.com/rpupo63/student-showcase-backend/access"
)

type keyType string

const callerKey keyType = "caller"

// ctxWithCaller adds the resolved caller to the context
func ctxWithCaller(ctx context.Context, caller access.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// ctxGetCaller returns the caller of the request, or the anonymous caller
// when the identify middleware did not run.
func ctxGetCaller(ctx context.Context) access.Caller {
	if caller, ok := ctx.Value(callerKey).(access.Caller); ok {
		return caller
	}
	return access.Anonymous
}
