//go:build wireinject

package main

import (
	"github.com/google/wire"
)

func initializeApp(path ConfigPath) (*App, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideWorld,
		provideTicker,
		provideHealth,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
