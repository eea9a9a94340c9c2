package api

import "github.com/rs/xid"

// NewID generates a unique identifier for resources created by this service.
// The generated IDs are valid DNS-1123 labels so they can be used verbatim in
// URLs and host names.
func NewID() string {
	return xid.New().String()
}
