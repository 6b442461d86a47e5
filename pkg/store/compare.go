package store

import (
	"fmt"
	"reflect"
	"sort"
)

// CompareBy selects what the comparator inspects at each shared leaf.
type CompareBy string

const (
	// CompareByValue reports structural value differences. The default.
	CompareByValue CompareBy = "value"

	// CompareByFreshness reports only which side's modifiedAt is newer.
	CompareByFreshness CompareBy = "freshness"
)

// CompareOptions configures Compare.
type CompareOptions struct {
	By CompareBy
}

// DiffKind classifies a single reported difference.
type DiffKind string

const (
	DiffMissingInOther DiffKind = "missing-in-other"
	DiffMissingInSelf  DiffKind = "missing-in-self"
	DiffValueMismatch  DiffKind = "value-mismatch"
	DiffKindMismatch   DiffKind = "kind-mismatch"
	DiffNewerInSelf    DiffKind = "newer-in-self"
	DiffNewerInOther   DiffKind = "newer-in-other"
)

// Difference is one divergence between two context trees.
type Difference struct {
	Path string
	Kind DiffKind
}

// Report is the outcome of comparing two contexts.
type Report struct {
	Equal       bool
	Differences []Difference
}

// Compare produces a structural or freshness diff of two contexts. The walk
// reads node state directly and touches no timestamp on either side.
func (ctx *Context) Compare(other *Context, opts CompareOptions) (*Report, error) {
	if other == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotAContext)
	}
	by := opts.By
	if by == "" {
		by = CompareByValue
	}
	if by != CompareByValue && by != CompareByFreshness {
		return nil, fmt.Errorf("%w: compare mode %q", ErrUnknownOperation, by)
	}

	report := &Report{}
	for _, name := range ContainerNames {
		compareContainers(ctx.containers[name], other.containers[name], name, by, report)
	}
	report.Equal = len(report.Differences) == 0
	return report, nil
}

func compareContainers(a, b *Container, path string, by CompareBy, report *Report) {
	for _, key := range unionKeys(a.children, b.children) {
		childPath := path + "." + key
		an, aok := a.children[key]
		bn, bok := b.children[key]
		switch {
		case !bok:
			report.Differences = append(report.Differences, Difference{Path: childPath, Kind: DiffMissingInOther})
		case !aok:
			report.Differences = append(report.Differences, Difference{Path: childPath, Kind: DiffMissingInSelf})
		default:
			compareNodes(an, bn, childPath, by, report)
		}
	}
}

func compareNodes(a, b Node, path string, by CompareBy, report *Report) {
	ac, aIsContainer := a.(*Container)
	bc, bIsContainer := b.(*Container)
	if aIsContainer != bIsContainer {
		report.Differences = append(report.Differences, Difference{Path: path, Kind: DiffKindMismatch})
		return
	}
	if aIsContainer {
		compareContainers(ac, bc, path, by, report)
		return
	}

	ai, bi := a.(*Item), b.(*Item)
	switch by {
	case CompareByFreshness:
		if ai.modifiedAt.After(bi.modifiedAt) {
			report.Differences = append(report.Differences, Difference{Path: path, Kind: DiffNewerInSelf})
		} else if bi.modifiedAt.After(ai.modifiedAt) {
			report.Differences = append(report.Differences, Difference{Path: path, Kind: DiffNewerInOther})
		}
	default:
		if !reflect.DeepEqual(ai.value, bi.value) {
			report.Differences = append(report.Differences, Difference{Path: path, Kind: DiffValueMismatch})
		}
	}
}

// CompatOptions configures the pre-flight compatibility check.
type CompatOptions struct {
	// RequireSameKeys additionally demands identical key sets at every
	// shared container, not just the absence of kind conflicts.
	RequireSameKeys bool
}

// IsCompatibleWith reports whether the two contexts can be synced: the fixed
// container set always matches, so the check is that no shared path holds an
// Item on one side and a Container on the other. Sync and merge call this
// before any mutation so failure leaves both sides untouched.
func (ctx *Context) IsCompatibleWith(other *Context, opts CompatOptions) bool {
	if other == nil {
		return false
	}
	for _, name := range ContainerNames {
		if !compatibleContainers(ctx.containers[name], other.containers[name], opts) {
			return false
		}
	}
	return true
}

func compatibleContainers(a, b *Container, opts CompatOptions) bool {
	for key, an := range a.children {
		bn, ok := b.children[key]
		if !ok {
			if opts.RequireSameKeys {
				return false
			}
			continue
		}
		ac, aIsContainer := an.(*Container)
		bc, bIsContainer := bn.(*Container)
		if aIsContainer != bIsContainer {
			return false
		}
		if aIsContainer && !compatibleContainers(ac, bc, opts) {
			return false
		}
	}
	if opts.RequireSameKeys {
		for key := range b.children {
			if _, ok := a.children[key]; !ok {
				return false
			}
		}
	}
	return true
}

// unionKeys returns the sorted union of both child key sets.
func unionKeys(a, b map[string]Node) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		seen[k] = true
		keys = append(keys, k)
	}
	for k := range b {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
