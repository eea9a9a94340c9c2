package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
)

// Error is the wire representation of a ServiceError.
type Error struct {
	Kind        string `json:"kind"`
	ID          string `json:"id"`
	HREF        string `json:"href"`
	Code        string `json:"code"`
	Reason      string `json:"reason"`
	OperationID string `json:"operation_id,omitempty"`
}

// ErrorList is the wire representation of the error catalog.
type ErrorList struct {
	Kind  string  `json:"kind"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
	Total int     `json:"total"`
	Items []Error `json:"items"`
}

// SendNotFound sends a 404 response with some details about the non existing resource.
func SendNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reason := fmt.Sprintf(
		"The requested resource '%s' doesn't exist",
		r.URL.Path,
	)
	body := Error{
		Kind:   "Error",
		ID:     "404",
		HREF:   "/api/control_tower/v1/errors/404",
		Code:   "404",
		Reason: reason,
	}

	w.WriteHeader(http.StatusNotFound)
	data, err := json.Marshal(body)
	if err != nil {
		sentry.CaptureException(err)
		glog.Errorf("Can't marshal not found response: %s", err)
		return
	}
	_, err = w.Write(data)
	if err != nil {
		sentry.CaptureException(err)
		glog.Errorf("Can't send not found response: %s", err)
	}
}

// SendMethodNotAllowed response.
func SendMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reason := fmt.Sprintf(
		"The requested method '%s' isn't allowed on resource '%s'",
		r.Method, r.URL.Path,
	)
	body := Error{
		Kind:   "Error",
		ID:     "405",
		HREF:   "/api/control_tower/v1/errors/405",
		Code:   "405",
		Reason: reason,
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
	data, err := json.Marshal(body)
	if err != nil {
		sentry.CaptureException(err)
		glog.Errorf("Can't marshal method not allowed response: %s", err)
		return
	}
	_, err = w.Write(data)
	if err != nil {
		sentry.CaptureException(err)
		glog.Errorf("Can't send method not allowed response: %s", err)
	}
}
