package config

import (
	"github.com/tauraamui/signclips/internal/config"
	"github.com/tauraamui/signclips/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
