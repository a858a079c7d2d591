package dispatcher

import "github.com/dshills/eventgate/internal/event"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch statistics collection.
	EnableMetrics bool

	// PrimaryPointerID is the pointer whose capture transitions also
	// produce legacy mouse capture events.
	PrimaryPointerID int

	// MaxDrainDepth limits how deeply drains may nest before Drain refuses
	// to go further. Zero means no limit.
	MaxDrainDepth int

	// IgnoredTypes are dropped on arrival and never delivered.
	IgnoredTypes []event.TypeID
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		PrimaryPointerID: event.MousePointerID,
		MaxDrainDepth:    256,
		IgnoredTypes:     []event.TypeID{event.Repaint},
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPrimaryPointer returns a copy of the config with the primary pointer id set.
func (c Config) WithPrimaryPointer(id int) Config {
	c.PrimaryPointerID = id
	return c
}

// WithMaxDrainDepth returns a copy of the config with the drain depth limit set.
func (c Config) WithMaxDrainDepth(depth int) Config {
	c.MaxDrainDepth = depth
	return c
}

// WithIgnoredTypes returns a copy of the config that drops the given types.
func (c Config) WithIgnoredTypes(types ...event.TypeID) Config {
	c.IgnoredTypes = append([]event.TypeID(nil), types...)
	return c
}

func (c Config) ignores(t event.TypeID) bool {
	for _, it := range c.IgnoredTypes {
		if it == t {
			return true
		}
	}
	return false
}
