// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// reference server handlers and the sync client's command line.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies, log entries or terminal output to describe the
// outcome of an operation. Keeping them in one place ensures consistent
// wording throughout the API.
package app

// Reference server responses.
const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails validation (e.g. a missing name).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidJSON is returned when the request body is not valid JSON.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgInvalidSince is returned when the since query parameter is not an
	// RFC 3339 timestamp.
	MsgInvalidSince = "invalid since parameter"

	// MsgInvalidID is returned when the id path segment is not a positive
	// integer.
	MsgInvalidID = "invalid id"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgEntityNotFound is returned when an update or delete targets an
	// entity that does not exist or was deleted.
	MsgEntityNotFound = "entity not found"

	// MsgUnknownReference is returned when an entity points at another
	// entity the server does not know.
	MsgUnknownReference = "referenced entity does not exist"

	// MsgPremiumRequired is returned with 402 when the workspace plan does
	// not include the requested feature.
	MsgPremiumRequired = "this feature requires a premium workspace"

	// MsgSingletonNotEditable is returned when a client tries to create or
	// delete the user or the preferences.
	MsgSingletonNotEditable = "this entity cannot be created or deleted"
)

// Sync client messages.
const (
	// MsgSyncInProgress is shown when another sync holds the database.
	MsgSyncInProgress = "another sync is already running"

	// MsgAuthorizationFailed is shown when the API token was rejected.
	MsgAuthorizationFailed = "the server rejected the API token, set a valid APP_API_TOKEN"

	// MsgServerUnreachable is shown when the sync API could not be reached.
	MsgServerUnreachable = "the sync server is unreachable, try again later"

	// MsgSyncCanceled is shown when a run was interrupted.
	MsgSyncCanceled = "sync was canceled"

	// MsgSyncFailed is the fallback for any other fatal run.
	MsgSyncFailed = "sync failed"
)
