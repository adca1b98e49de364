// Package autoload initialises the global logger from LOG_* variables on import.
package autoload

import (
	configx "github.com/tanpawarit/promo-agent/pkg/config"
	logx "github.com/tanpawarit/promo-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
