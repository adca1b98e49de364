package retrieval

import (
	"math"
	"testing"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

func TestHaversineKM(t *testing.T) {
	t.Parallel()

	saoPaulo := contractx.Location{Lat: -23.5505, Lng: -46.6333}
	rio := contractx.Location{Lat: -22.9068, Lng: -43.1729}

	got := HaversineKM(saoPaulo, rio)
	if math.Abs(got-357.7) > 1.0 {
		t.Fatalf("HaversineKM(SP, RJ) = %v, want about 357.7", got)
	}
	if HaversineKM(rio, rio) != 0 {
		t.Fatal("distance to self must be zero")
	}
	if math.Abs(HaversineKM(saoPaulo, rio)-HaversineKM(rio, saoPaulo)) > 1e-9 {
		t.Fatal("distance must be symmetric")
	}
}

func TestRoundKM(t *testing.T) {
	t.Parallel()

	cases := map[float64]float64{
		1.234:  1.23,
		1.2351: 1.24,
		0:      0,
		9.999:  10,
	}
	for in, want := range cases {
		if got := RoundKM(in); got != want {
			t.Fatalf("RoundKM(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestCentsFromAmount(t *testing.T) {
	t.Parallel()

	cases := map[float64]int64{
		5.00:  500,
		5.01:  501,
		5.009: 500,
		5.999: 599,
		19.99: 1999,
		0.1:   10,
		1e17:  math.MaxInt64,
		-1e17: math.MinInt64,
	}
	for in, want := range cases {
		got, ok := CentsFromAmount(in)
		if !ok || got != want {
			t.Fatalf("CentsFromAmount(%v) = %d, %v, want %d, true", in, got, ok, want)
		}
	}

	for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := CentsFromAmount(in); ok {
			t.Fatalf("CentsFromAmount(%v) ok = true, want false", in)
		}
	}
}
