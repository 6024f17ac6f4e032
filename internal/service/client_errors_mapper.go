// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-time-sync/internal/adapter"
	"github.com/MKhiriev/go-time-sync/internal/app"
)

// DescribeFatal translates the error of a fatal run into a message for the
// user. The error itself is still logged with full detail.
func DescribeFatal(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSyncInProgress):
		return app.MsgSyncInProgress
	case adapter.IsAuthorizationFailure(err):
		return app.MsgAuthorizationFailed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return app.MsgSyncCanceled
	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, adapter.ErrBadGateway),
		errors.Is(err, adapter.ErrInternalServerError):
		return app.MsgServerUnreachable
	default:
		return app.MsgSyncFailed
	}
}
