package service

import "errors"

var (
	// ErrSyncInProgress is returned when a run, resync or retry is requested
	// while another one holds the client.
	ErrSyncInProgress = errors.New("sync already in progress")

	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrEntityNotFound       = errors.New("entity not found")
	ErrIDMismatch           = errors.New("id in path does not match the entity")
	ErrUnknownReference     = errors.New("referenced entity does not exist")
	ErrFeatureNeedsPremium  = errors.New("feature requires a premium workspace")
	ErrSingletonNotEditable = errors.New("singleton cannot be created or deleted")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
