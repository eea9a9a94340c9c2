package logging

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hirewire/control-tower/pkg/logger"
)

type loggingWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestLoggingMiddleware logs pertinent information about each request and
// its response, tagging log lines with the matched route name as the action.
func RequestLoggingMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		if route := mux.CurrentRoute(request); route != nil && route.GetName() != "" {
			ctx = context.WithValue(ctx, logger.ActionKey, route.GetName())
		}
		ctx = context.WithValue(ctx, logger.RemoteAddrKey, request.RemoteAddr)
		request = request.WithContext(ctx)

		ulog := logger.NewUHCLogger(ctx)
		ulog.V(5).Infof("request: method='%s' path='%s'", request.Method, request.URL.Path)

		lw := &loggingWriter{ResponseWriter: writer, status: http.StatusOK}
		before := time.Now()
		handler.ServeHTTP(lw, request)
		ulog.V(5).Infof("response: method='%s' path='%s' status='%d' elapsed='%s'",
			request.Method, request.URL.Path, lw.status, time.Since(before))
	})
}
