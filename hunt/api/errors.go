package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/service"
	"github.com/Ftotnem/HUNT-SERVICES/shared/api"
)

// writeError maps a service error onto the HTTP taxonomy. Unexpected errors are
// logged with their cause and reported to the client as action failed.
func (h *HuntAPIHandlers) writeError(w http.ResponseWriter, err error, action string) {
	var e *service.Error
	errors.As(err, &e)

	switch service.KindOf(err) {
	case service.KindBadRequest:
		api.WriteErrorFields(w, http.StatusBadRequest, e.Message, e.Fields)
	case service.KindUnauthorized:
		api.WriteUnauthorized(w, e.Message)
	case service.KindForbidden:
		api.WriteForbidden(w, e.Message)
	case service.KindNotFound:
		msg := "Not found"
		if e != nil {
			msg = e.Message
		}
		api.WriteNotFound(w, msg)
	case service.KindConflict:
		api.WriteError(w, http.StatusConflict, e.Message)
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			h.log.Warn("%s: %v", action, err)
			api.WriteError(w, http.StatusServiceUnavailable, "Request timed out")
			return
		}
		h.log.Error("%s: %+v", action, err)
		api.WriteInternalServerError(w, "Failed to "+action)
	}
}
