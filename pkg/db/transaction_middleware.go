package db

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/logger"
	"github.com/hirewire/control-tower/pkg/shared"
)

// TransactionMiddleware creates a new HTTP middleware that begins a database transaction
// and stores it in the request context.
func TransactionMiddleware(f *ConnectionFactory) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := f.NewContext(r.Context())
			if err != nil {
				ulog := logger.NewUHCLogger(ctx)
				ulog.Errorf("Could not create transaction: %v", err)
				// use default error to avoid exposing internals to users
				svcErr := errors.GeneralError("")
				operationID := logger.GetOperationID(ctx)
				shared.WriteJSONResponse(w, svcErr.HttpCode, svcErr.AsOpenapiError(operationID))
				return
			}

			r = r.WithContext(ctx)

			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.ConfigureScope(func(scope *sentry.Scope) {
					txid := ctx.Value("txid").(int64)
					scope.SetTag("db_transaction_id", fmt.Sprintf("%d", txid))
				})
			}

			// Returned from handlers and resolve transactions.
			defer func() { Resolve(r.Context()) }()

			next.ServeHTTP(w, r)
		})
	}
}
