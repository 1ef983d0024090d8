package games

import "testing"

func TestNewScoreKeepsRawAndGoalsInSync(t *testing.T) {
	cases := []struct {
		raw   string
		want  string
		goals int
	}{
		{"3Б", "3Б", 3},
		{"12", "12", 12},
		{" 4 ", "4", 4},
		{"", "", 0},
		{"Б", "Б", 0},
		{"2ОТ", "2ОТ", 2},
	}

	for _, tc := range cases {
		got := NewScore(tc.raw)
		if got.Raw != tc.want || got.Goals != tc.goals {
			t.Fatalf("NewScore(%q) = %+v, want raw=%q goals=%d", tc.raw, got, tc.want, tc.goals)
		}
	}
}

func TestZeroScore(t *testing.T) {
	if ZeroScore.Raw != "0" || ZeroScore.Goals != 0 {
		t.Fatalf("unexpected zero score %+v", ZeroScore)
	}
	if ZeroScore.String() != "0" {
		t.Fatalf("expected String to return raw value")
	}
}
