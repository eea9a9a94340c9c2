package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

type Server interface {
	Start()
	Stop()
	// Listen only starts the listener, not the server.
	// Useful when you require the server to be listening before continuing.
	Listen() (net.Listener, error)
	// Serve starts the blocking call to Serve on a previously created listener.
	Serve(listener net.Listener)
}

// RouteLoader mounts a set of routes on the main router.
type RouteLoader interface {
	AddRoutes(mainRouter *mux.Router) error
}

func check(err error, msg string, sentryTimeout time.Duration) {
	if err != nil && err != http.ErrServerClosed {
		glog.Errorf("%s: %s", msg, err)
		sentry.CaptureException(err)
		sentry.Flush(sentryTimeout)
		glog.Fatal(err)
	}
}

func removeTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.TrimSuffix(r.URL.Path, "/")
		next.ServeHTTP(w, r)
	})
}
