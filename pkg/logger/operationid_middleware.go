package logger

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

type operationIDKey int

const OpIDKey operationIDKey = iota

const OpIDHeader = "X-Operation-ID"

// OperationIDMiddleware sets a relatively unique operation ID in the context
// of each request for debugging purposes, and echoes it back on the response.
func OperationIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		opID := r.Header.Get(OpIDHeader)
		if opID == "" {
			opID = xid.New().String()
		}
		ctx := context.WithValue(r.Context(), OpIDKey, opID)
		w.Header().Set(OpIDHeader, opID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOperationID returns the operation ID stored in the context, if any.
func GetOperationID(ctx context.Context) string {
	if opID, ok := ctx.Value(OpIDKey).(string); ok {
		return opID
	}
	return ""
}
