package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/shared"
)

type Validate func() *errors.ServiceError

// HandlerConfig defines the common pieces of a request handler: an optional
// target to unmarshal the request body into, a list of validators to run
// before the action, and the action itself.
type HandlerConfig struct {
	MarshalInto interface{}
	Validate    []Validate
	Action      func() (interface{}, *errors.ServiceError)
}

func errorHandler(r *http.Request, w http.ResponseWriter, cfg *HandlerConfig, err *errors.ServiceError) {
	shared.HandleError(r, w, err)
}

// Handle unmarshals and validates the request, runs the action and writes the
// result with the given status code on success.
func Handle(w http.ResponseWriter, r *http.Request, cfg *HandlerConfig, httpStatus int) {
	if cfg.MarshalInto != nil {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			errorHandler(r, w, cfg, errors.MalformedRequest("Unable to read request body: %s", err))
			return
		}

		err = json.Unmarshal(payload, cfg.MarshalInto)
		if err != nil {
			errorHandler(r, w, cfg, errors.MalformedRequest("Invalid request format: %s", err))
			return
		}
	}

	for _, v := range cfg.Validate {
		err := v()
		if err != nil {
			errorHandler(r, w, cfg, err)
			return
		}
	}

	result, serviceErr := cfg.Action()
	if serviceErr != nil {
		errorHandler(r, w, cfg, serviceErr)
		return
	}

	shared.WriteJSONResponse(w, httpStatus, result)
}

// HandleGet handles a get request
func HandleGet(w http.ResponseWriter, r *http.Request, cfg *HandlerConfig) {
	Handle(w, r, cfg, http.StatusOK)
}

// HandleList handles a list request
func HandleList(w http.ResponseWriter, r *http.Request, cfg *HandlerConfig) {
	Handle(w, r, cfg, http.StatusOK)
}

// HandleDelete handles a delete request
func HandleDelete(w http.ResponseWriter, r *http.Request, cfg *HandlerConfig, httpStatus int) {
	Handle(w, r, cfg, httpStatus)
}
