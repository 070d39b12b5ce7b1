package diagnosis

import "testing"

func TestNormalizeTrap(t *testing.T) {
	tests := []struct {
		in   string
		want TrapType
	}{
		{"Distortion", TrapDistortion},
		{"out of scope", TrapOutOfScope},
		{"Opposite", TrapReversal},
		{"Opposite/Reversal", TrapReversal},
		{"  Extreme Language ", TrapExtremeLanguage},
		{"This is a classic distortion trap", TrapDistortion},
		{"True but Irrelevant", TrapTrueButIrrelevant},
		{"", TrapUnknown},
		{"unknown", TrapUnknown},
		{"Half-Right", TrapType("Half-Right")},
	}
	for _, tt := range tests {
		if got := NormalizeTrap(tt.in); got != tt.want {
			t.Errorf("NormalizeTrap(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTraps_AllDescribed(t *testing.T) {
	if len(Traps()) != 5 {
		t.Fatalf("expected 5 trap types, got %d", len(Traps()))
	}
	for _, tr := range Traps() {
		if tr.Description == "" {
			t.Errorf("%s has no description", tr.Type)
		}
	}
}
