package rank

import "testing"

func TestClassifyThresholds(t *testing.T) {
	cases := []struct {
		bottles int
		want    Rank
	}{
		{-50, Novice},
		{0, Novice},
		{250, Novice},
		{500, Novice},
		{501, Contributor},
		{1000, Contributor},
		{1249, Contributor},
		{1250, Master},
		{1449, Master},
		{1450, Whale},
		{10000, Whale},
	}

	for _, c := range cases {
		if got := Classify(c.bottles); got != c.want {
			t.Fatalf("Classify(%d) = %s, want %s", c.bottles, got, c.want)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	prev := Ordinal(Classify(0))
	for bottles := 1; bottles <= 2000; bottles++ {
		cur := Ordinal(Classify(bottles))
		if cur < prev {
			t.Fatalf("rank regressed at %d bottles", bottles)
		}
		prev = cur
	}
}
