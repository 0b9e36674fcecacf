package portability

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/famhub/famhub/pkg/domain"
)

func TestSnapshot_ValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr error
	}{
		{name: "current version", version: "1.0", wantErr: nil},
		{name: "future version", version: "2.0", wantErr: domain.ErrUnsupportedSnapshotVersion},
		{name: "empty version", version: "", wantErr: domain.ErrUnsupportedSnapshotVersion},
		{name: "prefixed version", version: "v1.0", wantErr: domain.ErrUnsupportedSnapshotVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			snap.Version = tt.version
			if err := snap.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSnapshot_ValidateRejectsMissingFamily(t *testing.T) {
	snap := &Snapshot{Version: SnapshotVersion}
	if err := snap.Validate(); !errors.Is(err, domain.ErrEmptySnapshot) {
		t.Errorf("Validate() = %v, want ErrEmptySnapshot", err)
	}
}

func TestSnapshot_WireFormatFields(t *testing.T) {
	data, err := json.Marshal(testSnapshot())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, field := range []string{
		"version", "exported_at", "family", "members", "posts", "media_items",
		"events", "recipes", "conversations", "messages", "vaults",
		"vault_items", "relationships", "audit_events",
	} {
		if _, ok := raw[field]; !ok {
			t.Errorf("snapshot wire format missing field %q", field)
		}
	}

	var version string
	if err := json.Unmarshal(raw["version"], &version); err != nil || version != "1.0" {
		t.Errorf("version field = %q (%v), want \"1.0\"", version, err)
	}
}
