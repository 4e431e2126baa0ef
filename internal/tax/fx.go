package tax

import (
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tax.service",
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
