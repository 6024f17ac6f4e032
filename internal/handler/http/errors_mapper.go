package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-time-sync/internal/app"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/service"
	"github.com/MKhiriev/go-time-sync/internal/store"
)

type errorResponse struct {
	status  int
	message string
}

var errorResponses = map[error]errorResponse{
	service.ErrInvalidDataProvided:     {http.StatusBadRequest, app.MsgInvalidDataProvided},
	service.ErrIDMismatch:              {http.StatusBadRequest, app.MsgInvalidID},
	service.ErrTokenIsExpiredOrInvalid: {http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid},
	service.ErrFeatureNeedsPremium:     {http.StatusPaymentRequired, app.MsgPremiumRequired},
	service.ErrEntityNotFound:          {http.StatusNotFound, app.MsgEntityNotFound},
	service.ErrUnknownReference:        {http.StatusConflict, app.MsgUnknownReference},
	service.ErrSingletonNotEditable:    {http.StatusMethodNotAllowed, app.MsgSingletonNotEditable},

	store.ErrEntityNotFound: {http.StatusNotFound, app.MsgEntityNotFound},
}

func responseFromError(err error) errorResponse {
	for target, resp := range errorResponses {
		if errors.Is(err, target) {
			return resp
		}
	}
	return errorResponse{http.StatusInternalServerError, app.MsgInternalServerError}
}

// writeError logs err and answers with the status and message mapped from it.
// Server faults are logged at error level, client mistakes at warn.
func writeError(w http.ResponseWriter, r *http.Request, fn string, err error) {
	resp := responseFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if resp.status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Int("status", resp.status).Msg(resp.message)

	http.Error(w, resp.message, resp.status)
}
