package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-time-sync/models"
)

// CollectionService is the reference server's business layer for one entity
// type. Every write returns the entity as stored, with its server id and
// server time.
type CollectionService[T models.Entity[T]] interface {
	// List returns the entities changed strictly after since, or every live
	// entity when since is nil.
	List(ctx context.Context, since *time.Time) ([]T, error)

	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	Delete(ctx context.Context, id int64) error
}

// CollectionServiceWrapper defines middleware composition for
// CollectionService. Implementations wrap an existing service to add
// behavior such as validation.
type CollectionServiceWrapper[T models.Entity[T]] interface {
	Wrap(CollectionService[T]) CollectionService[T]
}

type AuthService interface {
	CreateToken(ctx context.Context, userID int64) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
