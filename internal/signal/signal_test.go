package signal

import (
	"testing"
	"time"
)

func TestSignalZeroValue(t *testing.T) {
	var s Signal
	if s.Family != "" {
		t.Errorf("zero-value Family = %q, want empty", s.Family)
	}
	if s.Strength != 0.0 {
		t.Errorf("zero-value Strength = %v, want 0.0", s.Strength)
	}
}

func TestFamiliesReliabilityOrder(t *testing.T) {
	got := Families()
	want := []Family{FamilyStubMarker, FamilyTestLayout, FamilyDeclaredConfig, FamilyNamingConvention}
	if len(got) != len(want) {
		t.Fatalf("Families() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Families()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestKnownFamily(t *testing.T) {
	for _, f := range Families() {
		if !KnownFamily(f) {
			t.Errorf("KnownFamily(%q) = false, want true", f)
		}
	}
	if KnownFamily("GIT_HISTORY") {
		t.Error("KnownFamily accepted a family outside the closed set")
	}
}

func TestTierAtLeast(t *testing.T) {
	if !TierHigh.AtLeast(TierLow) {
		t.Error("HIGH should be at least LOW")
	}
	if !TierLow.AtLeast(TierLow) {
		t.Error("LOW should be at least LOW")
	}
	if TierNone.AtLeast(TierLow) {
		t.Error("NONE should not be at least LOW")
	}
}

func TestScannerResultTracksError(t *testing.T) {
	r := ScannerResult{
		Family:   FamilyStubMarker,
		Duration: 10 * time.Millisecond,
		Err:      nil,
	}
	if r.Err != nil {
		t.Errorf("expected nil error, got %v", r.Err)
	}
}

func TestDetectionDegraded(t *testing.T) {
	d := Detection{}
	if d.Degraded() {
		t.Error("detection with no degraded families reported Degraded")
	}
	d.DegradedFamilies = []Family{FamilyNamingConvention}
	if !d.Degraded() {
		t.Error("detection with a degraded family did not report Degraded")
	}
}
