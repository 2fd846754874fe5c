package config

import (
	"github.com/tauraamui/signclips/internal/config"
	"github.com/tauraamui/signclips/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
