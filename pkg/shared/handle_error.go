package shared

import (
	"net/http"

	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/logger"
)

// HandleError handles a service error by returning an appropriate HTTP response with error reason
func HandleError(r *http.Request, w http.ResponseWriter, err *errors.ServiceError) {
	ctx := r.Context()
	ulog := logger.NewUHCLogger(ctx)
	operationID := logger.GetOperationID(ctx)
	if err.IsClientErrorClass() {
		ulog.Infof("%s", err.Error())
	} else {
		ulog.Error(err.AsError())
	}

	WriteJSONResponse(w, err.HttpCode, err.AsOpenapiError(operationID))
}
