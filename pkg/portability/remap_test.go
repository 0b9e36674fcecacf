package portability

import (
	"testing"

	"github.com/google/uuid"
)

func TestIDMap_RemapIsStableWithinOneCall(t *testing.T) {
	m := make(IDMap)
	old := uuid.New()

	first := m.Remap(old)
	second := m.Remap(old)

	if first != second {
		t.Errorf("Remap returned %s then %s for the same source id", first, second)
	}
	if first == old {
		t.Error("Remap must assign a fresh identifier, got the original back")
	}
}

func TestIDMap_RemapIsInjective(t *testing.T) {
	m := make(IDMap)
	assigned := make(map[uuid.UUID]uuid.UUID)

	for i := 0; i < 1000; i++ {
		old := uuid.New()
		newID := m.Remap(old)
		if prev, ok := assigned[newID]; ok {
			t.Fatalf("sources %s and %s both mapped to %s", prev, old, newID)
		}
		assigned[newID] = old
	}
}

func TestIDMap_LookupFallsBackToOriginal(t *testing.T) {
	m := make(IDMap)
	mapped := uuid.New()
	unmapped := uuid.New()
	newID := m.Remap(mapped)

	if got := m.Lookup(mapped); got != newID {
		t.Errorf("Lookup(mapped) = %s, want %s", got, newID)
	}
	if got := m.Lookup(unmapped); got != unmapped {
		t.Errorf("Lookup(unmapped) = %s, want original %s", got, unmapped)
	}
}

func TestIDMap_PtrHelpers(t *testing.T) {
	m := make(IDMap)

	if got := m.LookupPtr(nil); got != nil {
		t.Errorf("LookupPtr(nil) = %v, want nil", got)
	}
	if got := m.RemapPtr(nil); got != nil {
		t.Errorf("RemapPtr(nil) = %v, want nil", got)
	}

	old := uuid.New()
	remapped := m.RemapPtr(&old)
	if remapped == nil || *remapped != m[old] {
		t.Error("RemapPtr must record and return the fresh identifier")
	}
	looked := m.LookupPtr(&old)
	if looked == nil || *looked != *remapped {
		t.Error("LookupPtr must resolve through the recorded mapping")
	}
}

func TestIDMap_SeparateInvocationsAreDisjoint(t *testing.T) {
	old := uuid.New()
	first := make(IDMap).Remap(old)
	second := make(IDMap).Remap(old)

	if first == second {
		t.Error("separate invocations must not share identifier assignments")
	}
}
