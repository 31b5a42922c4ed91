package template

import (
	"go.uber.org/fx"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/serializer"
)

// FXModule provides a Template over whichever driver.Factory is in the
// graph. Combine it with one of the backend modules:
//
//	app := fx.New(
//	    goredis.FXModule,
//	    template.FXModule,
//	    fx.Provide(func() goredis.Config { return loadConfig() }),
//	)
//
// A serializer.Serializer in the graph overrides the JSON default.
var FXModule = fx.Module("template",
	fx.Provide(NewWithDI),
)

// TemplateParams groups the dependencies needed to create a Template.
type TemplateParams struct {
	fx.In

	Factory    driver.Factory
	Serializer serializer.Serializer `optional:"true"`
	Logger     Logger                `optional:"true"`
}

// NewWithDI creates a Template from injected dependencies.
func NewWithDI(params TemplateParams) *Template {
	var opts []Option
	if params.Serializer != nil {
		opts = append(opts, WithSerializer(params.Serializer))
	}
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	return New(params.Factory, opts...)
}
