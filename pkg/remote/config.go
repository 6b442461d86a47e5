// Package remote binds logical identifiers to externally owned object
// graphs and projects parts of the context store onto them through dotted
// string paths. The bound graphs belong to the host; this package holds
// references only and never manages their lifetime.
// See docs/ARCHITECTURE.md § Remote Binding.
package remote

import "errors"

// RootMapFunc produces the root map from the host namespace and the host
// module object. Supplied by the host configuration; called once at
// construction.
type RootMapFunc func(namespace map[string]any, module any) map[string]any

// Config supplies the remote-context defaults, consumed once at
// construction.
type Config struct {
	// RootIdentifier is the root-map key selected by default.
	RootIdentifier string `json:"root_identifier" yaml:"root_identifier"`

	// Location is the base dotted path operators read and write under.
	Location string `json:"location" yaml:"location"`

	// Zone sub-paths under Location.
	DataPath     string `json:"data_path" yaml:"data_path"`
	FlagsPath    string `json:"flags_path" yaml:"flags_path"`
	SettingsPath string `json:"settings_path" yaml:"settings_path"`

	// RootMap produces the root map to parse.
	RootMap RootMapFunc `json:"-" yaml:"-"`
}

// Config validation errors.
var (
	ErrRootIdentifierEmpty = errors.New("root identifier must not be empty")
	ErrRootMapFuncMissing  = errors.New("root map function must not be nil")
)

// Validate checks that the Config is well-formed. Construction fails fast on
// the first violation; a partially constructed manager is never returned.
func (c Config) Validate() error {
	if c.RootIdentifier == "" {
		return ErrRootIdentifierEmpty
	}
	if c.RootMap == nil {
		return ErrRootMapFuncMissing
	}
	return nil
}
