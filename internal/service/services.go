package service

import (
	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/store"
	"github.com/MKhiriev/go-time-sync/models"
)

// Services is the business layer of the reference server.
type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService

	Workspaces  CollectionService[models.Workspace]
	Preferences CollectionService[models.Preferences]
	Users       CollectionService[models.User]
	Clients     CollectionService[models.Client]
	Tags        CollectionService[models.Tag]
	Projects    CollectionService[models.Project]
	Tasks       CollectionService[models.Task]
	TimeEntries CollectionService[models.TimeEntry]
}

func NewServices(storages *store.ServerStorages, cfg config.ServerApp, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	refs := lookup(storages)

	return &Services{
		AuthService:    NewAuthService(cfg, logger),
		AppInfoService: appInfo,

		Workspaces:  validated[models.Workspace](newCollectionService(storages.Workspaces, refs, nil, logger)),
		Preferences: validated[models.Preferences](newCollectionService(storages.Preferences, refs, nil, logger)),
		Users:       validated[models.User](newCollectionService(storages.Users, refs, nil, logger)),
		Clients:     validated[models.Client](newCollectionService(storages.Clients, refs, nil, logger)),
		Tags:        validated[models.Tag](newCollectionService(storages.Tags, refs, nil, logger)),
		Projects:    validated[models.Project](newCollectionService(storages.Projects, refs, premiumColors(storages.Workspaces), logger)),
		Tasks:       validated[models.Task](newCollectionService(storages.Tasks, refs, nil, logger)),
		TimeEntries: validated[models.TimeEntry](newCollectionService(storages.TimeEntries, refs, nil, logger)),
	}, nil
}

func validated[T models.Entity[T]](inner CollectionService[T]) CollectionService[T] {
	return NewCollectionValidationService[T]().Wrap(inner)
}
