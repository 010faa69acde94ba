package browser

import (
	"fmt"

	"fundix_e2e/domain/interfaces"
	"fundix_e2e/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// New - creates the browser engine named by cfg.Engine. The static engine
// uses http.DefaultClient against the real site.
func New(cfg config.Config, logger *logrus.Logger) (interfaces.Browser, error) {
	switch cfg.Engine {
	case config.EnginePlaywright:
		return NewPlaywrightController(cfg, logger)
	case config.EngineRod:
		return NewRodController(cfg, logger)
	case config.EngineSelenium:
		return NewSeleniumController(cfg, logger)
	case config.EngineStatic:
		s := NewStaticController(nil, logger)
		s.viewport = cfg.Viewport()
		return s, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q", cfg.Engine)
	}
}
