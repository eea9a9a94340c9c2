package logger

import (
	"context"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"
)

type LoggerKeys string

const (
	ActionKey       LoggerKeys = "Action"
	ActionResultKey LoggerKeys = "EventResult"
	RemoteAddrKey   LoggerKeys = "RemoteAddr"

	// UsernameKey carries the resolved actor name, set by the auth middleware.
	UsernameKey LoggerKeys = "Username"

	ActionFailed  LoggerKeys = "failed"
	ActionSuccess LoggerKeys = "success"
)

type UHCLogger interface {
	V(level int32) UHCLogger
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Error(err error)
	Fatalf(format string, args ...interface{})
}

// Logger is a logger with a background context
var Logger = NewUHCLogger(context.Background())

var _ UHCLogger = &logger{}

type logger struct {
	context   context.Context
	level     int32
	username  string
	sentryHub *sentry.Hub
}

// NewUHCLogger creates a new logger instance with a default verbosity of 1
func NewUHCLogger(ctx context.Context) UHCLogger {
	return &logger{
		context:   ctx,
		level:     1,
		username:  usernameFromContext(ctx),
		sentryHub: sentry.GetHubFromContext(ctx),
	}
}

func usernameFromContext(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameKey).(string); ok {
		return username
	}
	return ""
}

func (l *logger) prepareLogPrefix(format string, args ...interface{}) string {
	orig := fmt.Sprintf(format, args...)
	prefix := ""

	if l.username != "" {
		prefix = strings.Join([]string{prefix, "user='", l.username, "' "}, "")
	}

	if event, ok := l.context.Value(ActionKey).(string); ok {
		prefix = strings.Join([]string{prefix, "action='", event, "' "}, "")
		if eventStatus, ok := l.context.Value(ActionResultKey).(string); ok {
			prefix = strings.Join([]string{prefix, "result='", eventStatus, "' "}, "")
		}
	}

	if remoteAddr, ok := l.context.Value(RemoteAddrKey).(string); ok {
		prefix = strings.Join([]string{prefix, "src_ip='", remoteAddr, "' "}, "")
	}

	if txid, ok := l.context.Value("txid").(int64); ok {
		prefix = strings.Join([]string{prefix, "tx_id='", fmt.Sprintf("%v", txid), "' "}, "")
	}

	if opid, ok := l.context.Value(OpIDKey).(string); ok {
		prefix = strings.Join([]string{prefix, "opid='", opid, "' "}, "")
	}

	return prefix + orig
}

func (l *logger) V(level int32) UHCLogger {
	return &logger{
		context:   l.context,
		username:  l.username,
		sentryHub: l.sentryHub,
		level:     level,
	}
}

func (l *logger) Infof(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.V(glog.Level(l.level)).Infoln(prefixed)
}

func (l *logger) Warningf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.Warningln(prefixed)
	l.captureSentryEvent(sentry.LevelWarning, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.Errorln(prefixed)
	l.captureSentryEvent(sentry.LevelError, format, args...)
}

func (l *logger) Error(err error) {
	glog.Error(err)
	if l.sentryHub == nil {
		sentry.CaptureException(err)
		return
	}
	l.sentryHub.CaptureException(err)
}

func (l *logger) Fatalf(format string, args ...interface{}) {
	prefixed := l.prepareLogPrefix(format, args...)
	glog.Fatalln(prefixed)
	l.captureSentryEvent(sentry.LevelFatal, format, args...)
}

func (l *logger) captureSentryEvent(level sentry.Level, format string, args ...interface{}) {
	event := sentry.NewEvent()
	event.Level = level
	event.Message = fmt.Sprintf(format, args...)
	if l.sentryHub == nil {
		glog.Warning("Sentry hub not present in logger")
		sentry.CaptureEvent(event)
		return
	}
	l.sentryHub.CaptureEvent(event)
}
