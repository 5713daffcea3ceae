package tabs

import (
	"errors"
	"fmt"
)

// Operation contexts carried by dashboardError events.
const (
	ContextActivation     = "tab-activation"
	ContextAdd            = "tab-add"
	ContextRemove         = "tab-remove"
	ContextUpdate         = "tab-update"
	ContextInitialization = "initialization"
	ContextRefresh        = "refresh"
)

// ConfigurationError reports missing fields, duplicate ids or unknown id
// references.
type ConfigurationError struct {
	Context string
	TabID   int
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.TabID != 0 {
		return fmt.Sprintf("tabs: %s: tab %d: %s", e.Context, e.TabID, e.Reason)
	}
	return fmt.Sprintf("tabs: %s: %s", e.Context, e.Reason)
}

// IntegrationError reports that an expected trigger or panel is absent when
// an operation runs.
type IntegrationError struct {
	Context string
	TabID   int
	Missing string // "trigger", "panel" or "trigger and panel"
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("tabs: %s: %s for tab %d not found", e.Context, e.Missing, e.TabID)
}

// ErrorContext returns the operation context of a tabs error, or "" when err
// is not one.
func ErrorContext(err error) string {
	var cfg *ConfigurationError
	if errors.As(err, &cfg) {
		return cfg.Context
	}
	var integ *IntegrationError
	if errors.As(err, &integ) {
		return integ.Context
	}
	return ""
}
