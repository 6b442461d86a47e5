package store

import "time"

// timeNow is the clock used for every timestamp bump. Overridable in tests.
var timeNow = time.Now

// record holds the metadata and timestamp state shared by Item and Container.
// Container embeds a record rather than extending Item: "access" and "value"
// mean different things for the two, so the relation is composition, not
// inheritance. See docs/ARCHITECTURE.md § Data Model.
type record struct {
	metadata             map[string]any
	createdAt            time.Time
	modifiedAt           time.Time
	lastAccessedAt       time.Time
	recordAccess         bool
	recordMetadataAccess bool
}

func newRecord(metadata map[string]any, recordAccess, recordMetadataAccess bool) record {
	now := timeNow()
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return record{
		metadata:             md,
		createdAt:            now,
		modifiedAt:           now,
		lastAccessedAt:       now,
		recordAccess:         recordAccess,
		recordMetadataAccess: recordMetadataAccess,
	}
}

// touchAccess bumps lastAccessedAt when value-access recording is on.
// Reads never move modifiedAt.
func (r *record) touchAccess() {
	if r.recordAccess {
		r.lastAccessedAt = timeNow()
	}
}

// touchMetadataAccess bumps lastAccessedAt when metadata-access recording is on.
func (r *record) touchMetadataAccess() {
	if r.recordMetadataAccess {
		r.lastAccessedAt = timeNow()
	}
}

// touchModify bumps modifiedAt. Called on every value or metadata mutation.
func (r *record) touchModify() {
	r.modifiedAt = timeNow()
}

// resetClock resets all three timestamps to now. Used by Reinitialize.
func (r *record) resetClock() {
	now := timeNow()
	r.createdAt = now
	r.modifiedAt = now
	r.lastAccessedAt = now
}

// CreatedAt returns the creation timestamp.
func (r *record) CreatedAt() time.Time { return r.createdAt }

// ModifiedAt returns the timestamp of the last value or metadata mutation.
func (r *record) ModifiedAt() time.Time { return r.modifiedAt }

// LastAccessedAt returns the timestamp of the last recorded access.
// Always ≥ CreatedAt.
func (r *record) LastAccessedAt() time.Time { return r.lastAccessedAt }

// Metadata returns a shallow copy of the metadata mapping. The read bumps
// lastAccessedAt only when metadata-access recording is on.
func (r *record) Metadata() map[string]any {
	r.touchMetadataAccess()
	md := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		md[k] = v
	}
	return md
}

// MergeMetadata shallow-merges patch into the metadata mapping. The write
// always bumps modifiedAt.
func (r *record) MergeMetadata(patch map[string]any) {
	for k, v := range patch {
		r.metadata[k] = v
	}
	r.touchMetadataAccess()
	r.touchModify()
}

// AccessRecord carries partial updates for the two access-recording flags.
// Nil fields leave the corresponding flag untouched.
type AccessRecord struct {
	RecordAccess         *bool
	RecordMetadataAccess *bool
}

// ChangeAccessRecord toggles the access-recording flags. It touches no
// timestamp: flag changes are neither reads nor value mutations.
func (r *record) ChangeAccessRecord(patch AccessRecord) {
	if patch.RecordAccess != nil {
		r.recordAccess = *patch.RecordAccess
	}
	if patch.RecordMetadataAccess != nil {
		r.recordMetadataAccess = *patch.RecordMetadataAccess
	}
}

// cloneRecord deep-copies a record, timestamps included. Merge strategies
// copy nodes wholesale so the winning side's history survives the merge.
func cloneRecord(r *record) record {
	md := make(map[string]any, len(r.metadata))
	for k, v := range r.metadata {
		md[k] = v
	}
	c := *r
	c.metadata = md
	return c
}
