package errors

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/golang/glog"

	"github.com/hirewire/control-tower/pkg/api"
)

const (
	ERROR_CODE_PREFIX = "CTRL-TOWER"

	// HREF for API errors
	ERROR_HREF = "/api/control_tower/v1/errors/"

	// Forbidden occurs when a user is not allowed to access the service
	ErrorForbidden       ServiceErrorCode = 4
	ErrorForbiddenReason string           = "Forbidden to perform this action"

	// Conflict occurs when a database constraint is violated
	ErrorConflict       ServiceErrorCode = 6
	ErrorConflictReason string           = "An entity with the specified unique values already exists"

	// NotFound occurs when a record is not found in the database
	ErrorNotFound       ServiceErrorCode = 7
	ErrorNotFoundReason string           = "Resource not found"

	// Validation occurs when an object fails validation
	ErrorValidation       ServiceErrorCode = 8
	ErrorValidationReason string           = "General validation failure"

	// General occurs when an error fails to match any other error code
	ErrorGeneral       ServiceErrorCode = 9
	ErrorGeneralReason string           = "Unspecified error"

	// NotImplemented occurs when an API REST method is not implemented in a handler
	ErrorNotImplemented       ServiceErrorCode = 10
	ErrorNotImplementedReason string           = "HTTP Method not implemented for this endpoint"

	// Unauthorized occurs when the requester is not authorized to perform the specified action
	ErrorUnauthorized       ServiceErrorCode = 11
	ErrorUnauthorizedReason string           = "Account is unauthorized to perform this action"

	// Unauthenticated occurs when the provided credentials cannot be validated
	ErrorUnauthenticated       ServiceErrorCode = 15
	ErrorUnauthenticatedReason string           = "Account authentication could not be verified"

	// MalformedRequest occurs when the request body cannot be read
	ErrorMalformedRequest       ServiceErrorCode = 17
	ErrorMalformedRequestReason string           = "Unable to read request body"

	// Bad Request
	ErrorBadRequest       ServiceErrorCode = 21
	ErrorBadRequestReason string           = "Bad request"

	// Minimum field length validation
	ErrorMinimumFieldLength       ServiceErrorCode = 33
	ErrorMinimumFieldLengthReason string           = "Minimum field length not reached"

	// Maximum field length validation
	ErrorMaximumFieldLength       ServiceErrorCode = 34
	ErrorMaximumFieldLengthReason string           = "Maximum field length has been surpassed"

	// A raw secret failed the hasher's input guards
	ErrorInvalidSecret       ServiceErrorCode = 120
	ErrorInvalidSecretReason string           = "Provided secret is not valid credential material"

	// A connector requiring an API key has no credential on file
	ErrorMissingCredential       ServiceErrorCode = 121
	ErrorMissingCredentialReason string           = "No credential on file - rotate a key before enabling this connector"

	// The requested connector does not exist in the workspace catalog
	ErrorConnectorNotFound       ServiceErrorCode = 122
	ErrorConnectorNotFoundReason string           = "Connector not found"

	// The connector is not in a state that allows the requested operation
	ErrorConnectorNotReady       ServiceErrorCode = 123
	ErrorConnectorNotReadyReason string           = "Connector is not connected"

	// The incident does not exist or was already resolved
	ErrorIncidentNotFound       ServiceErrorCode = 124
	ErrorIncidentNotFoundReason string           = "Incident not found or already resolved"

	// The backing store rejected a write; the command must be treated as failed
	ErrorPersistence       ServiceErrorCode = 125
	ErrorPersistenceReason string           = "Unable to persist the requested change"

	// A mutating command arrived without a resolved actor
	ErrorUnauthorizedActor       ServiceErrorCode = 126
	ErrorUnauthorizedActorReason string           = "A resolved actor is required for this action"

	// Failure to send an error response (i.e. unable to send error response as the error can't be converted to JSON.)
	ErrorUnableToSendErrorResponse       ServiceErrorCode = 1000
	ErrorUnableToSendErrorResponseReason string           = "An unexpected error happened, please check the log of the service for details"
)

type ServiceErrorCode int

type ServiceErrors []ServiceError

func Find(code ServiceErrorCode) (bool, *ServiceError) {
	for _, err := range Errors() {
		if err.Code == code {
			return true, &err
		}
	}
	return false, nil
}

func Errors() ServiceErrors {
	return ServiceErrors{
		ServiceError{ErrorForbidden, ErrorForbiddenReason, http.StatusForbidden},
		ServiceError{ErrorConflict, ErrorConflictReason, http.StatusConflict},
		ServiceError{ErrorNotFound, ErrorNotFoundReason, http.StatusNotFound},
		ServiceError{ErrorValidation, ErrorValidationReason, http.StatusBadRequest},
		ServiceError{ErrorGeneral, ErrorGeneralReason, http.StatusInternalServerError},
		ServiceError{ErrorNotImplemented, ErrorNotImplementedReason, http.StatusMethodNotAllowed},
		ServiceError{ErrorUnauthorized, ErrorUnauthorizedReason, http.StatusForbidden},
		ServiceError{ErrorUnauthenticated, ErrorUnauthenticatedReason, http.StatusUnauthorized},
		ServiceError{ErrorMalformedRequest, ErrorMalformedRequestReason, http.StatusBadRequest},
		ServiceError{ErrorBadRequest, ErrorBadRequestReason, http.StatusBadRequest},
		ServiceError{ErrorMinimumFieldLength, ErrorMinimumFieldLengthReason, http.StatusBadRequest},
		ServiceError{ErrorMaximumFieldLength, ErrorMaximumFieldLengthReason, http.StatusBadRequest},
		ServiceError{ErrorInvalidSecret, ErrorInvalidSecretReason, http.StatusBadRequest},
		ServiceError{ErrorMissingCredential, ErrorMissingCredentialReason, http.StatusBadRequest},
		ServiceError{ErrorConnectorNotFound, ErrorConnectorNotFoundReason, http.StatusNotFound},
		ServiceError{ErrorConnectorNotReady, ErrorConnectorNotReadyReason, http.StatusConflict},
		ServiceError{ErrorIncidentNotFound, ErrorIncidentNotFoundReason, http.StatusNotFound},
		ServiceError{ErrorPersistence, ErrorPersistenceReason, http.StatusInternalServerError},
		ServiceError{ErrorUnauthorizedActor, ErrorUnauthorizedActorReason, http.StatusUnauthorized},
		ServiceError{ErrorUnableToSendErrorResponse, ErrorUnableToSendErrorResponseReason, http.StatusInternalServerError},
	}
}

func ToServiceError(err error) *ServiceError {
	switch convertedErr := err.(type) {
	case *ServiceError:
		return convertedErr
	default:
		return GeneralError("%s", convertedErr.Error())
	}
}

type ServiceError struct {
	// Code is the numeric and distinct ID for the error
	Code ServiceErrorCode
	// Reason is the context-specific reason the error was generated
	Reason string
	// HttpCode is the HttpCode associated with the error when the error is returned as an API response
	HttpCode int
}

// New returns a ServiceError for the given code. Reason can be a string with
// format verbs, which will be replaced by the specified values.
func New(code ServiceErrorCode, reason string, values ...interface{}) *ServiceError {
	// If the code isn't defined, use the general error code
	var err *ServiceError
	exists, err := Find(code)
	if !exists {
		glog.Errorf("Undefined error code used: %d", code)
		err = &ServiceError{ErrorGeneral, ErrorGeneralReason, http.StatusInternalServerError}
	}

	// If the reason is unspecified, use the default
	if reason != "" {
		err.Reason = fmt.Sprintf(reason, values...)
	}

	return err
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", CodeStr(e.Code), e.Reason)
}

func (e *ServiceError) AsError() error {
	return fmt.Errorf("%s", e.Error())
}

func (e *ServiceError) Is404() bool {
	return e.Code == NotFound("").Code
}

func (e *ServiceError) IsConflict() bool {
	return e.Code == Conflict("").Code
}

func (e *ServiceError) IsForbidden() bool {
	return e.Code == Forbidden("").Code
}

func (e *ServiceError) IsPersistence() bool {
	return e.Code == ErrorPersistence
}

func (e *ServiceError) IsClientErrorClass() bool {
	return e.HttpCode >= http.StatusBadRequest && e.HttpCode < http.StatusInternalServerError
}

func (e *ServiceError) IsServerErrorClass() bool {
	return e.HttpCode >= http.StatusInternalServerError
}

func (e *ServiceError) AsOpenapiError(operationID string) api.Error {
	return api.Error{
		Kind:        "Error",
		ID:          strconv.Itoa(int(e.Code)),
		HREF:        Href(e.Code),
		Code:        CodeStr(e.Code),
		Reason:      e.Reason,
		OperationID: operationID,
	}
}

func CodeStr(code ServiceErrorCode) string {
	return fmt.Sprintf("%s-%d", ERROR_CODE_PREFIX, code)
}

func Href(code ServiceErrorCode) string {
	return fmt.Sprintf("%s%d", ERROR_HREF, code)
}

func NotFound(reason string, values ...interface{}) *ServiceError {
	return New(ErrorNotFound, reason, values...)
}

func GeneralError(reason string, values ...interface{}) *ServiceError {
	return New(ErrorGeneral, reason, values...)
}

func Unauthorized(reason string, values ...interface{}) *ServiceError {
	return New(ErrorUnauthorized, reason, values...)
}

func Unauthenticated(reason string, values ...interface{}) *ServiceError {
	return New(ErrorUnauthenticated, reason, values...)
}

func Forbidden(reason string, values ...interface{}) *ServiceError {
	return New(ErrorForbidden, reason, values...)
}

func NotImplemented(reason string, values ...interface{}) *ServiceError {
	return New(ErrorNotImplemented, reason, values...)
}

func Conflict(reason string, values ...interface{}) *ServiceError {
	return New(ErrorConflict, reason, values...)
}

func Validation(reason string, values ...interface{}) *ServiceError {
	return New(ErrorValidation, reason, values...)
}

func MalformedRequest(reason string, values ...interface{}) *ServiceError {
	return New(ErrorMalformedRequest, reason, values...)
}

func BadRequest(reason string, values ...interface{}) *ServiceError {
	return New(ErrorBadRequest, reason, values...)
}

func MinimumFieldLengthNotReached(reason string, values ...interface{}) *ServiceError {
	return New(ErrorMinimumFieldLength, reason, values...)
}

func MaximumFieldLengthExceeded(reason string, values ...interface{}) *ServiceError {
	return New(ErrorMaximumFieldLength, reason, values...)
}

func InvalidSecret(reason string, values ...interface{}) *ServiceError {
	return New(ErrorInvalidSecret, reason, values...)
}

func MissingCredential(reason string, values ...interface{}) *ServiceError {
	return New(ErrorMissingCredential, reason, values...)
}

func ConnectorNotFound(reason string, values ...interface{}) *ServiceError {
	return New(ErrorConnectorNotFound, reason, values...)
}

func ConnectorNotReady(reason string, values ...interface{}) *ServiceError {
	return New(ErrorConnectorNotReady, reason, values...)
}

func IncidentNotFound(reason string, values ...interface{}) *ServiceError {
	return New(ErrorIncidentNotFound, reason, values...)
}

func Persistence(reason string, values ...interface{}) *ServiceError {
	return New(ErrorPersistence, reason, values...)
}

func UnauthorizedActor(reason string, values ...interface{}) *ServiceError {
	return New(ErrorUnauthorizedActor, reason, values...)
}

func UnableToSendErrorResponse() *ServiceError {
	return New(ErrorUnableToSendErrorResponse, ErrorUnableToSendErrorResponseReason)
}
