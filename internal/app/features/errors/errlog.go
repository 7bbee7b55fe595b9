// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/jmoreland/peopledesk/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with a user-facing error response,
// so handlers report failures in one call instead of interleaving log and
// render logic everywhere.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest logs a client error and renders a 400 page. userMsg is what
// the user sees; op and err go to the log only.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Warn("bad request",
		zap.String("op", op),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	e.renderError(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogServerError logs a server-side failure and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, op string, err error, userMsg, backURL string) {
	e.log.Error("server error",
		zap.String("op", op),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	e.renderError(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogNotFound logs a missing-resource access and renders a 404 page.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, op, userMsg, backURL string) {
	e.log.Info("not found",
		zap.String("op", op),
		zap.String("path", r.URL.Path),
	)
	e.renderError(w, r, http.StatusNotFound, "Not found", userMsg, backURL)
}

func (e *ErrorLogger) renderError(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Message: msg,
	})
}
