//go:build wireinject
// +build wireinject

package main

import (
	"dukas-data/internal/app"
	"dukas-data/internal/build"

	"github.com/google/wire"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *app.Config
	Pool   *build.Pool
}

// InitializeApp builds App (Config + worker Pool around the task executor) via Wire.
func InitializeApp() (*App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideLogger,
		app.ProvideExecutor,
		app.ProvidePool,
		wire.Struct(new(App), "Config", "Pool"),
	)
	return nil, nil
}
