package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"movieetl/internal/config"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	overrides    []func(*config.Config)

	configOnce sync.Once
	config     *config.Config
	configPath string
	configFile bool
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// addOverride registers a flag-driven adjustment applied before validation.
// Overrides must be registered before the first ensureConfig call.
func (c *commandContext) addOverride(fn func(*config.Config)) {
	c.overrides = append(c.overrides, fn)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		overrides := append([]func(*config.Config){c.applyLogLevel}, c.overrides...)
		cfg, resolved, exists, err := config.Load(path, overrides...)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configFile = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyLogLevel(cfg *config.Config) {
	if c.logLevelFlag == nil {
		return
	}
	if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
		cfg.Logging.Level = level
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
