package document

import (
	"go.uber.org/fx"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/service"
)

var Module = fx.Module("document.service",
	fx.Provide(service.NewService),
)
