package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EVENTGATE_"

// LookupFunc looks up an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

type envBinding struct {
	key string
	set func(s *Settings, v string) error
}

func envBindings() []envBinding {
	return []envBinding{
		{"LOG_LEVEL", func(s *Settings, v string) error { s.Log.Level = v; return nil }},
		{"LOG_PREFIX", func(s *Settings, v string) error { s.Log.Prefix = v; return nil }},
		{"DISPATCHER_METRICS", boolVar(func(s *Settings) *bool { return &s.Dispatcher.Metrics })},
		{"DISPATCHER_PRIMARY_POINTER", intVar(func(s *Settings) *int { return &s.Dispatcher.PrimaryPointer })},
		{"DISPATCHER_MAX_DRAIN_DEPTH", intVar(func(s *Settings) *int { return &s.Dispatcher.MaxDrainDepth })},
		{"DISPATCHER_IGNORED_TYPES", func(s *Settings, v string) error {
			s.Dispatcher.IgnoredTypes = splitList(v)
			return nil
		}},
		{"CLICK_DOUBLE_CLICK_MS", intVar(func(s *Settings) *int { return &s.Click.DoubleClickMS })},
		{"CLICK_MAX_DISTANCE", func(s *Settings, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return err
			}
			s.Click.MaxDistance = f
			return nil
		}},
		{"TRACE_ENABLED", boolVar(func(s *Settings) *bool { return &s.Trace.Enabled })},
		{"TRACE_PATH", func(s *Settings, v string) error { s.Trace.Path = v; return nil }},
		{"TRACE_LIMIT", intVar(func(s *Settings) *int { return &s.Trace.Limit })},
		{"SCRIPT", func(s *Settings, v string) error { s.Script = v; return nil }},
	}
}

func boolVar(field func(*Settings) *bool) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(s) = b
		return nil
	}
}

func intVar(field func(*Settings) *int) func(*Settings, string) error {
	return func(s *Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// EnvKeys returns every recognized environment variable name.
func EnvKeys() []string {
	bindings := envBindings()
	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, EnvPrefix+b.key)
	}
	return keys
}

// ApplyEnv overrides settings from EVENTGATE_* variables found by lookup.
// Malformed values are reported together; well-formed ones still apply.
func (s *Settings) ApplyEnv(lookup LookupFunc) error {
	var errs []error
	for _, b := range envBindings() {
		v, ok := lookup(EnvPrefix + b.key)
		if !ok {
			continue
		}
		if err := b.set(s, strings.TrimSpace(v)); err != nil {
			errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, b.key, err))
		}
	}
	return errors.Join(errs...)
}
