// internal/config/errors.go
package config

import "fmt"

// ConfigError reports an invalid or missing parameter at sensor or scenario
// construction time. It is fatal: no sample is generated after one occurs.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: parameter %q: %s", e.Param, e.Reason)
}

// Errorf builds a ConfigError for callers outside the resolver, e.g.
// cross-parameter checks in modality constructors.
func Errorf(param, format string, args ...any) *ConfigError {
	return &ConfigError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

func errf(param, format string, args ...any) *ConfigError {
	return Errorf(param, format, args...)
}
