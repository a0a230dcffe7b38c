package game

import "testing"

func TestComputeHint_AllMatch(t *testing.T) {
	for _, w := range []string{"CRANE", "ALLOY", "EERIE"} {
		if got := ComputeHint(w, w); got != w {
			t.Fatalf("ComputeHint(%q,%q)=%q want %q", w, w, got, w)
		}
	}
}

func TestComputeHint_NoSharedLetters(t *testing.T) {
	got := ComputeHint("QUICK", "PLANT")
	if got != "_____" {
		t.Fatalf("expected all absent, got %q", got)
	}
}

func TestComputeHint_Vectors(t *testing.T) {
	cases := []struct {
		guess, secret, want string
	}{
		// L at 0 is misplaced (1 exact L + 0 < 2), A at 2 misplaced, A at 4 capped.
		{"LLAMA", "ALLOY", "lLa__"},
		{"SLATE", "CRANE", "__A_E"},
		{"NACRE", "CRANE", "nacrE"},
		{"PAPER", "APPLE", "paPe_"},
		// both O in ROBOT are already exact, so no O may be promoted.
		{"OOOOO", "ROBOT", "_O_O_"},
		{"SPEED", "ABIDE", "__e_d"},
		{"GEESE", "EERIE", "_Ee_E"},
	}
	for _, tc := range cases {
		if got := ComputeHint(tc.guess, tc.secret); got != tc.want {
			t.Fatalf("ComputeHint(%q,%q)=%q want %q", tc.guess, tc.secret, got, tc.want)
		}
	}
}

func TestComputeHint_DuplicateCapNeverExceedsFrequency(t *testing.T) {
	hint := ComputeHint("LLAMA", "ALLOY")
	ls := 0
	for i := 0; i < len(hint); i++ {
		if hint[i] == 'L' || hint[i] == 'l' {
			ls++
		}
	}
	if ls > 2 {
		t.Fatalf("hint %q discloses %d Ls, secret has 2", hint, ls)
	}
}

func TestComputeHint_Deterministic(t *testing.T) {
	first := ComputeHint("PAPER", "APPLE")
	for i := 0; i < 10; i++ {
		if got := ComputeHint("PAPER", "APPLE"); got != first {
			t.Fatalf("run %d: %q != %q", i, got, first)
		}
	}
}

func TestIsSolved(t *testing.T) {
	cases := []struct {
		hint string
		ok   bool
	}{
		{"CRANE", true},
		{"CRAnE", false},
		{"CRA_E", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsSolved(tc.hint); got != tc.ok {
			t.Fatalf("IsSolved(%q)=%v want %v", tc.hint, got, tc.ok)
		}
	}
}
