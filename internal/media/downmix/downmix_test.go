package downmix

import "testing"

func TestPlan51(t *testing.T) {
	formula := Plan(6, true)
	if formula.Shape != Shape51 {
		t.Fatalf("shape = %s", formula.Shape)
	}
	if !formula.Mixes() {
		t.Fatal("5.1 formula should mix")
	}
	assertCenterFullGain(t, formula)
	assertSideWeights(t, formula, 2)

	want := "pan=stereo|FL=FC+0.30*FL+0.30*BL|FR=FC+0.30*FR+0.30*BR"
	if got := formula.PanFilter(); got != want {
		t.Fatalf("pan filter = %q, want %q", got, want)
	}
}

func TestPlan71(t *testing.T) {
	formula := Plan(8, true)
	if formula.Shape != Shape71 {
		t.Fatalf("shape = %s", formula.Shape)
	}
	assertCenterFullGain(t, formula)
	assertSideWeights(t, formula, 3)

	want := "pan=stereo|FL=FC+0.30*FL+0.30*BL+0.30*SL|FR=FC+0.30*FR+0.30*BR+0.30*SR"
	if got := formula.PanFilter(); got != want {
		t.Fatalf("pan filter = %q, want %q", got, want)
	}
}

func TestPlanIrregularLayoutFallsBackToGeneric(t *testing.T) {
	formula := Plan(7, true)
	if formula.Shape != ShapeGeneric {
		t.Fatalf("7ch shape = %s, want generic", formula.Shape)
	}
	if !formula.Mixes() {
		t.Fatal("generic fold should count as mixing")
	}
	if formula.PanFilter() != "" {
		t.Fatalf("generic fold has no pan expression, got %q", formula.PanFilter())
	}
}

func TestPlanNoDownmix(t *testing.T) {
	for _, channels := range []int{1, 2, 4, 6, 8} {
		formula := Plan(channels, false)
		if formula.Shape != ShapeNone {
			t.Errorf("Plan(%d, false) shape = %s, want none", channels, formula.Shape)
		}
		if formula.Mixes() {
			t.Errorf("Plan(%d, false) should not mix", channels)
		}
	}
	// Below the 6-channel threshold the layout is preserved even under a
	// downmix request.
	if formula := Plan(4, true); formula.Shape != ShapeNone {
		t.Errorf("Plan(4, true) shape = %s, want none", formula.Shape)
	}
	if formula := Plan(2, true); formula.Shape != ShapeNone {
		t.Errorf("Plan(2, true) shape = %s, want none", formula.Shape)
	}
}

func assertCenterFullGain(t *testing.T, formula Formula) {
	t.Helper()
	for _, side := range [][]Coefficient{formula.Left, formula.Right} {
		found := false
		for _, c := range side {
			if c.Channel == "FC" {
				found = true
				if c.Weight != 1.0 {
					t.Fatalf("center weight = %v, want 1.0", c.Weight)
				}
			}
		}
		if !found {
			t.Fatal("formula missing center channel")
		}
	}
}

func assertSideWeights(t *testing.T, formula Formula, wantPairs int) {
	t.Helper()
	for _, side := range [][]Coefficient{formula.Left, formula.Right} {
		weighted := 0
		for _, c := range side {
			if c.Channel == "FC" {
				continue
			}
			if c.Weight != 0.30 {
				t.Fatalf("side weight for %s = %v, want 0.30", c.Channel, c.Weight)
			}
			weighted++
		}
		if weighted != wantPairs {
			t.Fatalf("weighted side channels = %d, want %d", weighted, wantPairs)
		}
	}
}

func TestBitrate(t *testing.T) {
	cases := []struct {
		channels int
		downmix  bool
		want     int
	}{
		{6, true, 128},
		{8, true, 128},
		{2, false, 128},
		{6, false, 256},
		{8, false, 384},
		{1, false, 192},
		{4, false, 192},
		{7, false, 192},
		// Requested flag wins even when the planner would leave the
		// layout untouched.
		{4, true, 128},
		{2, true, 128},
	}
	for _, tc := range cases {
		if got := Bitrate(tc.channels, tc.downmix); got != tc.want {
			t.Errorf("Bitrate(%d, %v) = %d, want %d", tc.channels, tc.downmix, got, tc.want)
		}
	}
}
