package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/logger"
	"github.com/hirewire/control-tower/pkg/shared"
)

type errorsHandler struct{}

func NewErrorsHandler() *errorsHandler {
	return &errorsHandler{}
}

// Get returns the catalog entry for a single error code.
func (h errorsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	value, err := strconv.Atoi(id)
	if err != nil {
		shared.HandleError(r, w, errors.NotFound("No error with id %s exists", id))
		return
	}

	code := errors.ServiceErrorCode(value)
	exists, svcErr := errors.Find(code)
	if !exists {
		shared.HandleError(r, w, errors.NotFound("No error with id %s exists", id))
		return
	}

	operationID := logger.GetOperationID(r.Context())
	cfg := &HandlerConfig{
		Action: func() (interface{}, *errors.ServiceError) {
			return svcErr.AsOpenapiError(operationID), nil
		},
	}
	HandleGet(w, r, cfg)
}

// List returns the full error catalog.
func (h errorsHandler) List(w http.ResponseWriter, r *http.Request) {
	operationID := logger.GetOperationID(r.Context())
	cfg := &HandlerConfig{
		Action: func() (interface{}, *errors.ServiceError) {
			allErrors := errors.Errors()
			list := api.ErrorList{
				Kind:  "ErrorList",
				Page:  1,
				Size:  len(allErrors),
				Total: len(allErrors),
				Items: make([]api.Error, 0, len(allErrors)),
			}
			for _, e := range allErrors {
				list.Items = append(list.Items, e.AsOpenapiError(operationID))
			}
			return list, nil
		},
	}
	HandleList(w, r, cfg)
}
