package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", "u1", false) || !m.Enabled("c", "u1", false) || !m.Enabled("e", "u1", false) {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", "u1", true) || m.Enabled("d", "u1", true) || m.Enabled("f", "u1", true) {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
}

func TestEnabled_DefaultForUnconfiguredFlags(t *testing.T) {
	m := NewManager("x=on")

	if !m.Enabled("missing", "u1", true) {
		t.Fatal("unconfigured flag should fall back to the default")
	}
	if m.Enabled("missing", "u1", false) {
		t.Fatal("unconfigured flag should fall back to the default")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", "u1", false) {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", "u1", true) {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", "user-42", false)
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", "user-42", false); got != first {
			t.Fatal("rollout evaluation must be deterministic per subject")
		}
	}

	if m.Enabled("canary", "", false) {
		t.Fatal("percentage rollout requires a subject")
	}
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, y = 20% ,z=off ")

	raw := m.Raw()
	if len(raw) != 3 {
		t.Fatalf("expected 3 parsed flags, got %d", len(raw))
	}
	if raw["x"] != "on" || raw["y"] != "20%" || raw["z"] != "off" {
		t.Fatalf("unexpected raw flags: %#v", raw)
	}

	snap := m.Snapshot("user-123")
	if len(snap) != 3 {
		t.Fatalf("expected snapshot size 3, got %d", len(snap))
	}
}
