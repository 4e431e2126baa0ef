package contact

import (
	"go.uber.org/fx"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/service"
)

var Module = fx.Module("contact.service",
	fx.Provide(service.NewService),
)
