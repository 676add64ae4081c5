// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger pairs zap logging with user-facing error pages so handlers
// can report a failure in one call: the operator gets the real error, the
// user gets a friendly page.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a client-input failure and renders a retry page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Warn(what,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	render(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogServerError logs a server-side failure and renders a retry page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Error(what,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}
