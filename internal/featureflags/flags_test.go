package featureflags

import "testing"

func TestEnabled_Switches(t *testing.T) {
	f := Parse("a=on,b=off,c=TRUE,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		if !f.Enabled(name, "") {
			t.Fatalf("%s should be enabled", name)
		}
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		if f.Enabled(name, "user-1") {
			t.Fatalf("%s should be disabled", name)
		}
	}
}

func TestEnabled_Rollout(t *testing.T) {
	f := Parse("always=100%,never=0%,canary=25%,broken=x%")

	if !f.Enabled("always", "") {
		t.Fatal("100% rollout is on even without a subject")
	}
	if f.Enabled("never", "user-1") || f.Enabled("broken", "user-1") {
		t.Fatal("0% and malformed rollouts are off")
	}
	if f.Enabled("canary", "") {
		t.Fatal("partial rollout needs a subject")
	}

	first := f.Enabled("canary", "3f1c2a9e")
	for i := 0; i < 5; i++ {
		if f.Enabled("canary", "3f1c2a9e") != first {
			t.Fatal("rollout must be deterministic per subject")
		}
	}

	on := 0
	for i := 0; i < 1000; i++ {
		if f.Enabled("canary", "session-"+string(rune('a'+i%26))+string(rune('a'+i/26))) {
			on++
		}
	}
	if on == 0 || on == 1000 {
		t.Fatalf("25%% rollout should split subjects, got %d/1000", on)
	}
}

func TestParse_SkipsMalformed(t *testing.T) {
	f := Parse(" bad ,Live_Updates = on, =on,x=, y = 20% ")

	names := f.Names()
	if len(names) != 2 || names[0] != LiveUpdates || names[1] != "y" {
		t.Fatalf("unexpected names: %v", names)
	}
	snap := f.Snapshot("")
	if !snap[LiveUpdates] || snap["y"] {
		t.Fatalf("unexpected snapshot: %v", snap)
	}
}

func TestNilFlags(t *testing.T) {
	var f *Flags
	if f.Enabled(LiveUpdates, "x") {
		t.Fatal("nil flags are all off")
	}
}
