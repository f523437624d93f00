package web

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/desertthunder/watchlist/internal/server"
	"github.com/desertthunder/watchlist/internal/shared"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Page Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusTooManyRequests:     "Too Many Requests",
	http.StatusInternalServerError: "Internal Server Error",
}

// statusFor maps an error to the status of its error page.
func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail renders the error page for err. Server faults are logged with the request id.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", server.GetRequestID(r.Context()),
		)
	} else {
		a.logger.Debug("request rejected", "status", status, "error", err)
	}

	a.renderError(w, r, status)
}

// statusPage returns a handler that always renders the error page for status.
func (a *App) statusPage(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.renderError(w, r, status)
	}
}

// recovered is the [server.PanicHandler] for the application.
func (a *App) recovered(w http.ResponseWriter, r *http.Request, v any) {
	a.renderError(w, r, http.StatusInternalServerError)
}

// renderError writes the error page for status, leaving pending flashes for the next page.
//
// When the template itself fails a plain-text body is written instead.
func (a *App) renderError(w http.ResponseWriter, r *http.Request, status int) {
	message, ok := statusMessages[status]
	if !ok {
		message = http.StatusText(status)
	}

	data := page{Request: RequestFrom(r.Context()), Status: status, Message: message}

	var buf bytes.Buffer
	if err := a.templates.execute(&buf, "errors.html", data); err != nil {
		a.logger.Error("failed to render error page", "status", status, "error", err)
		http.Error(w, strconv.Itoa(status)+" "+message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
