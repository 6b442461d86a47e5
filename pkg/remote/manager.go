package remote

import (
	"fmt"

	"github.com/mesh-intelligence/satchel/pkg/validate"
)

// RootManager holds a parsed root map and the currently selected root.
// The selected root is a reference into the host's object graph; the manager
// never copies it or manages its lifetime.
type RootManager struct {
	cfg   Config
	roots map[string]any
	root  any
}

// NewRootManager validates the config, produces and parses the root map
// once, and selects the initial root under rootIdentifier (falling back to
// the config's RootIdentifier when empty). Construction failures are fatal:
// no partially constructed manager is ever returned.
func NewRootManager(cfg Config, namespace map[string]any, registry ModuleRegistry, moduleID, rootIdentifier string) (*RootManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("remote config: %w", err)
	}

	var module any
	if registry != nil {
		module, _ = registry.Module(moduleID)
	}

	roots, err := ParseRootMap(ParseArgs{
		RootMap:   cfg.RootMap(namespace, module),
		Namespace: namespace,
		Registry:  registry,
		ModuleID:  moduleID,
	})
	if err != nil {
		return nil, fmt.Errorf("parse root map: %w", err)
	}

	m := &RootManager{cfg: cfg, roots: roots}
	identifier := rootIdentifier
	if identifier == "" {
		identifier = cfg.RootIdentifier
	}
	root, err := m.DetermineRoot(identifier, validate.DefaultPolicy())
	if err != nil {
		return nil, err
	}
	m.root = root
	return m, nil
}

// Root returns the currently selected root.
func (m *RootManager) Root() any { return m.root }

// Roots returns the parsed root map.
func (m *RootManager) Roots() map[string]any { return m.roots }

// DetermineRoot looks up source in the parsed root map. A missing key
// surfaces through the tri-state validation policy; with a non-raising
// policy the nil sentinel is returned instead.
func (m *RootManager) DetermineRoot(source string, p validate.Policy) (any, error) {
	root, ok := m.roots[source]
	if !ok {
		_, err := p.Report(&validate.Failure{
			Field:    fmt.Sprintf("source %q", source),
			Expected: "a valid key in the root map",
			Got:      source,
		})
		return nil, err
	}
	return root, nil
}

// SetRoot determines the root under source and assigns it as the manager's
// selected root. Failures surface through the policy.
func (m *RootManager) SetRoot(source string, p validate.Policy) error {
	_, err := m.manageRoot(source, nil, false, true, "setRoot", p)
	return err
}

// SetRootOn determines the root under source and assigns it into the
// caller-owned target slot instead of the manager's own.
func (m *RootManager) SetRootOn(source string, target *any, p validate.Policy) error {
	_, err := m.manageRoot(source, target, false, true, "setRootOn", p)
	return err
}

// GetRoot determines and returns the root under source without mutating the
// manager or anything else.
func (m *RootManager) GetRoot(source string, p validate.Policy) (any, error) {
	return m.manageRoot(source, nil, true, false, "getRoot", p)
}

// manageRoot is the single primitive behind SetRoot and GetRoot: it
// determines the root under source, optionally assigns it (to target, or to
// the manager's own root slot when target is nil), and optionally returns
// it. Every failure inside re-surfaces through the same policy; with both
// Raise and Log off the nil sentinel comes back in place of a leaked
// failure.
func (m *RootManager) manageRoot(source string, target *any, returnValue, setProperty bool, operation string, p validate.Policy) (any, error) {
	value, ok := m.roots[source]
	if !ok {
		// A nil root-map entry is a legitimate value, so failure is
		// detected on key presence, not on the nil sentinel.
		_, err := p.Report(&validate.Failure{
			Field:    fmt.Sprintf("source %q", source),
			Expected: "a valid key in the root map",
			Got:      source,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", operation, err)
		}
		return nil, nil
	}
	if setProperty {
		if target == nil {
			target = &m.root
		}
		*target = value
	}
	if !returnValue {
		return nil, nil
	}
	return value, nil
}
