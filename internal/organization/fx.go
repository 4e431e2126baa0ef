package organization

import (
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/repository"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
