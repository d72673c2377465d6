package audit

// FieldChange is the before/after pair of a single changed field.
type FieldChange struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Changes maps changed field names to their before/after values.
// Unchanged fields are absent.
type Changes map[string]FieldChange

// sensitiveFields are stripped from every diff unconditionally.
// Credential material must never reach the audit log, not even inside
// a change entry.
var sensitiveFields = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"license_key":   {},
}

// Diff computes a field-level diff between two canonical field maps.
// Both sides are expected in canonical string form (see
// models.*.AuditFields), so representation differences between equal
// values do not produce spurious changes. Returns an empty map for a
// no-op update.
func Diff(old, current map[string]string) Changes {
	changes := Changes{}
	for field, newVal := range current {
		if _, sensitive := sensitiveFields[field]; sensitive {
			continue
		}
		if oldVal, ok := old[field]; !ok || oldVal != newVal {
			changes[field] = FieldChange{Old: old[field], New: newVal}
		}
	}
	// Fields present before but gone now still count as changes.
	for field, oldVal := range old {
		if _, sensitive := sensitiveFields[field]; sensitive {
			continue
		}
		if _, ok := current[field]; !ok {
			changes[field] = FieldChange{Old: oldVal}
		}
	}
	return changes
}

// toDetails converts a changes map to the JSON shape persisted in the
// audit log details payload: {field: {"old": ..., "new": ...}}.
func (c Changes) toDetails() map[string]any {
	out := make(map[string]any, len(c))
	for field, ch := range c {
		out[field] = map[string]any{"old": ch.Old, "new": ch.New}
	}
	return out
}
