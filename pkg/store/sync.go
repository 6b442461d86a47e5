package store

import (
	"fmt"
	"reflect"
	"time"
)

// Sync operation names.
const (
	// OpMerge resolves each leaf key by modification time (newer wins).
	OpMerge = "merge"

	// OpReplace makes the target a full copy of the receiver.
	OpReplace = "replace"

	// OpUpdate makes the receiver a full copy of the target.
	OpUpdate = "update"
)

// Priority sides for MergeWithPriority.
const (
	PrioritySource = "source"
	PriorityTarget = "target"
)

// Conflict-resolution modes for MergeWithPriority.
const (
	ResolveAuto   = "auto"
	ResolveManual = "manual"
)

// SyncOptions configures a sync run.
type SyncOptions struct {
	// Strategy is the operation AutoSync dispatches to. Defaults to OpMerge.
	Strategy string

	// Containers narrows the run to the named containers. Empty means all.
	Containers []string

	// Compat configures the pre-flight compatibility check.
	Compat CompatOptions
}

// Conflict describes a leaf key both sides hold with differing values.
// Source is the receiver; Target is the argument context.
type Conflict struct {
	Path           string
	SourceValue    any
	TargetValue    any
	SourceModified time.Time
	TargetModified time.Time
}

// SyncDetails itemizes what a sync run did.
type SyncDetails struct {
	// Applied lists the dotted paths whose value changed on the mutated side.
	Applied []string

	// Conflicts counts leaf keys both sides held with differing values.
	Conflicts int

	// Deferred holds conflicts left unresolved under manual resolution.
	// Deferred keys are never mutated; callers re-drive them explicitly.
	Deferred []Conflict
}

// SyncResult reports the outcome of a sync run.
type SyncResult struct {
	Success   bool
	Operation string
	Details   SyncDetails
}

// resolveContext extracts a *Context from the raw value or from anything
// exposing the Holder capability.
func resolveContext(v any) (*Context, error) {
	switch t := v.(type) {
	case *Context:
		if t == nil {
			return nil, fmt.Errorf("%w: nil", ErrNotAContext)
		}
		return t, nil
	case Holder:
		if ctx := t.Context(); ctx != nil {
			return ctx, nil
		}
		return nil, fmt.Errorf("%w: holder returned nil", ErrNotAContext)
	}
	return nil, fmt.Errorf("%w: %T", ErrNotAContext, v)
}

// containersFor returns the container names a run covers, validating any
// explicit narrowing.
func (ctx *Context) containersFor(opts SyncOptions) ([]string, error) {
	if len(opts.Containers) == 0 {
		return ContainerNames, nil
	}
	for _, name := range opts.Containers {
		if _, ok := ctx.containers[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
		}
	}
	return opts.Containers, nil
}

// Sync dispatches to one of the three operations. Compatibility is checked
// before any mutation; on failure neither side is touched.
func (ctx *Context) Sync(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	other, err := resolveContext(target)
	if err != nil {
		return nil, err
	}
	names, err := ctx.containersFor(opts)
	if err != nil {
		return nil, err
	}
	if !ctx.IsCompatibleWith(other, opts.Compat) {
		return nil, ErrIncompatible
	}

	result := &SyncResult{Operation: operation}
	switch operation {
	case OpMerge:
		for _, name := range names {
			mergeNewer(ctx.containers[name], other.containers[name], name, &result.Details)
		}
	case OpReplace:
		for _, name := range names {
			applyCopy(ctx.containers[name], other.containers[name], name, &result.Details)
		}
	case OpUpdate:
		for _, name := range names {
			applyCopy(other.containers[name], ctx.containers[name], name, &result.Details)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}
	result.Success = true
	return result, nil
}

// AutoSync runs the default merge strategy, or opts.Strategy when named.
// An incompatible target yields a no-op failure result rather than an error.
func (ctx *Context) AutoSync(target any, opts SyncOptions) (*SyncResult, error) {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = OpMerge
	}
	other, err := resolveContext(target)
	if err != nil {
		return nil, err
	}
	if !ctx.IsCompatibleWith(other, opts.Compat) {
		return &SyncResult{Success: false, Operation: strategy}, nil
	}
	return ctx.Sync(other, strategy, opts)
}

// MergeNewerWins merges target into the receiver, resolving every leaf key
// present on either side by modification time: the strictly newer side wins,
// and on an exact tie the receiver keeps its value. Resolution is per leaf
// key, so one container may mix values from both sides. Only the receiver is
// mutated.
func (ctx *Context) MergeNewerWins(target any, opts SyncOptions) (*SyncResult, error) {
	return ctx.Sync(target, OpMerge, opts)
}

// PriorityOptions configures MergeWithPriority.
type PriorityOptions struct {
	// Priority names the side that wins every conflicting key,
	// independent of timestamps: PrioritySource or PriorityTarget.
	Priority string

	// ConflictResolution is ResolveAuto (default) or ResolveManual. Manual
	// defers conflicting keys unmutated and reports them in the result.
	ConflictResolution string
}

// MergeWithPriority merges target into the receiver with the named side
// winning every conflict unconditionally. Keys present on only one side are
// still unioned into the receiver.
func (ctx *Context) MergeWithPriority(target any, popts PriorityOptions, opts SyncOptions) (*SyncResult, error) {
	if popts.Priority != PrioritySource && popts.Priority != PriorityTarget {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidValue, popts.Priority)
	}
	resolution := popts.ConflictResolution
	if resolution == "" {
		resolution = ResolveAuto
	}
	if resolution != ResolveAuto && resolution != ResolveManual {
		return nil, fmt.Errorf("%w: conflict resolution %q", ErrInvalidValue, resolution)
	}

	other, err := resolveContext(target)
	if err != nil {
		return nil, err
	}
	names, err := ctx.containersFor(opts)
	if err != nil {
		return nil, err
	}
	if !ctx.IsCompatibleWith(other, opts.Compat) {
		return nil, ErrIncompatible
	}

	result := &SyncResult{Operation: OpMerge}
	manual := resolution == ResolveManual
	for _, name := range names {
		mergePriority(ctx.containers[name], other.containers[name], name, popts.Priority, manual, &result.Details)
	}
	result.Success = true
	return result, nil
}

// MergeWithTargetPriority is MergeWithPriority with the target side winning.
func (ctx *Context) MergeWithTargetPriority(target any, opts SyncOptions) (*SyncResult, error) {
	return ctx.MergeWithPriority(target, PriorityOptions{Priority: PriorityTarget}, opts)
}

// SyncComponents narrows a sync run to the named containers. Target may be a
// *Context or any Holder.
func (ctx *Context) SyncComponents(target any, operation string, opts SyncOptions, names ...string) (*SyncResult, error) {
	opts.Containers = names
	return ctx.Sync(target, operation, opts)
}

// SyncSchema syncs only the schema container.
func (ctx *Context) SyncSchema(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	return ctx.SyncComponents(target, operation, opts, ContainerSchema)
}

// SyncData syncs only the data container.
func (ctx *Context) SyncData(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	return ctx.SyncComponents(target, operation, opts, ContainerData)
}

// SyncState syncs only the state container.
func (ctx *Context) SyncState(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	return ctx.SyncComponents(target, operation, opts, ContainerState)
}

// SyncFlags syncs only the flags container.
func (ctx *Context) SyncFlags(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	return ctx.SyncComponents(target, operation, opts, ContainerFlags)
}

// SyncSettings syncs only the settings container.
func (ctx *Context) SyncSettings(target any, operation string, opts SyncOptions) (*SyncResult, error) {
	return ctx.SyncComponents(target, operation, opts, ContainerSettings)
}

// mergeNewer merges src's children into dst under newer-wins rules.
// Kind mismatches cannot occur here: compatibility was checked up front.
func mergeNewer(dst, src *Container, path string, details *SyncDetails) {
	changed := false
	for _, key := range unionKeys(dst.children, src.children) {
		childPath := path + "." + key
		sn, sok := src.children[key]
		dn, dok := dst.children[key]
		switch {
		case !sok:
			// Receiver-only key: kept as is.
		case !dok:
			dst.children[key] = cloneNode(sn)
			details.Applied = append(details.Applied, childPath)
			changed = true
		default:
			dc, dIsContainer := dn.(*Container)
			if dIsContainer {
				mergeNewer(dc, sn.(*Container), childPath, details)
				continue
			}
			di, si := dn.(*Item), sn.(*Item)
			if !reflect.DeepEqual(di.value, si.value) {
				details.Conflicts++
			}
			// Strictly newer wins; the receiver keeps its value on a tie.
			if si.modifiedAt.After(di.modifiedAt) {
				dst.children[key] = cloneItem(si)
				details.Applied = append(details.Applied, childPath)
				changed = true
			}
		}
	}
	if changed {
		dst.touchModify()
	}
}

// mergePriority merges src's children into dst with the named side winning
// conflicts. With manual resolution, conflicting keys are deferred unmutated.
func mergePriority(dst, src *Container, path, priority string, manual bool, details *SyncDetails) {
	changed := false
	for _, key := range unionKeys(dst.children, src.children) {
		childPath := path + "." + key
		sn, sok := src.children[key]
		dn, dok := dst.children[key]
		switch {
		case !sok:
			// Receiver-only key: kept as is.
		case !dok:
			dst.children[key] = cloneNode(sn)
			details.Applied = append(details.Applied, childPath)
			changed = true
		default:
			dc, dIsContainer := dn.(*Container)
			if dIsContainer {
				mergePriority(dc, sn.(*Container), childPath, priority, manual, details)
				continue
			}
			di, si := dn.(*Item), sn.(*Item)
			if reflect.DeepEqual(di.value, si.value) {
				continue
			}
			details.Conflicts++
			if manual {
				details.Deferred = append(details.Deferred, Conflict{
					Path:           childPath,
					SourceValue:    di.value,
					TargetValue:    si.value,
					SourceModified: di.modifiedAt,
					TargetModified: si.modifiedAt,
				})
				continue
			}
			if priority == PriorityTarget {
				dst.children[key] = cloneItem(si)
				details.Applied = append(details.Applied, childPath)
				changed = true
			}
		}
	}
	if changed {
		dst.touchModify()
	}
}

// applyCopy makes dst a full copy of src in place, preserving dst's
// identity. Children, metadata, timestamps, and flags are all copied.
func applyCopy(src, dst *Container, path string, details *SyncDetails) {
	children := make(map[string]Node, len(src.children))
	for k, n := range src.children {
		children[k] = cloneNode(n)
	}
	dst.children = children
	dst.record = cloneRecord(&src.record)
	details.Applied = append(details.Applied, path)
}
