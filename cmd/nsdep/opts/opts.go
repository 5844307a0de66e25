package opts

import (
	"github.com/walteh/nsdep/pkg/config"
	"github.com/walteh/nsdep/pkg/rules"
)

// RootOpts holds the dependencies shared by the root command and subcommands.
type RootOpts struct {
	ConfigPath string         // explicit --config value, may be empty
	Config     *config.Config // loaded (or defaulted) configuration
	Rules      *rules.RuleSet // built-ins merged with config extras
}
