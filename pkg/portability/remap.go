package portability

import "github.com/google/uuid"

// IDMap memoizes old-to-new identifier assignments for a single import
// invocation. It is created per call and never shared or persisted, so the
// same source graph imported twice lands on disjoint identifier sets.
type IDMap map[uuid.UUID]uuid.UUID

// Remap returns the new identifier assigned to old, generating and recording
// a fresh one on first sight. Every later occurrence of old, whether as a
// primary key or a foreign-key reference, resolves to the same value
// regardless of processing order.
func (m IDMap) Remap(old uuid.UUID) uuid.UUID {
	if id, ok := m[old]; ok {
		return id
	}
	id := uuid.New()
	m[old] = id
	return id
}

// Lookup returns the remapped identifier if old was ever remapped, and old
// itself otherwise. References to identities outside the snapshot (shared
// system accounts, for example) pass through unchanged and may dangle in the
// destination environment.
func (m IDMap) Lookup(old uuid.UUID) uuid.UUID {
	if id, ok := m[old]; ok {
		return id
	}
	return old
}

// LookupPtr is Lookup for optional references.
func (m IDMap) LookupPtr(old *uuid.UUID) *uuid.UUID {
	if old == nil {
		return nil
	}
	id := m.Lookup(*old)
	return &id
}

// RemapPtr is Remap for optional references.
func (m IDMap) RemapPtr(old *uuid.UUID) *uuid.UUID {
	if old == nil {
		return nil
	}
	id := m.Remap(*old)
	return &id
}
