package retrieval

import (
	"context"
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

var testToday = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

type fakeSource struct {
	rows    []Candidate
	err     error
	filters []Filter
}

func (f *fakeSource) ActiveOffers(ctx context.Context, filter Filter) ([]Candidate, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return append([]Candidate(nil), f.rows...), nil
}

type fakeResolver struct {
	loc   contractx.Location
	ok    bool
	calls []int64
}

func (f *fakeResolver) Lookup(ctx context.Context, userID int64) (contractx.Location, bool) {
	f.calls = append(f.calls, userID)
	return f.loc, f.ok
}

// kmNorth returns the latitude that lies km north of the equator on the prime meridian.
func kmNorth(km float64) float64 {
	return km / (math.Pi * earthRadiusKM / 180)
}

func ptr[T any](v T) *T {
	return &v
}

func offer(id int64, cents int64, distKM float64) Candidate {
	return Candidate{
		OfferID:       id,
		Product:       "Leite Integral",
		Category:      "laticinios",
		Establishment: "Mercado Central",
		City:          "Campinas",
		State:         "SP",
		Lat:           ptr(kmNorth(distKM)),
		Lng:           ptr(0.0),
		PriceCents:    cents,
		StartDate:     DateOf(testToday).AddDays(-3),
		EndDate:       DateOf(testToday).AddDays(3),
	}
}

func newTestService(t *testing.T, source Source, resolver contractx.LocationResolver) *Service {
	t.Helper()
	svc, err := NewService(source, resolver, Config{}, WithClock(func() time.Time { return testToday }))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func candidates(t *testing.T, res contractx.ToolResult) []Candidate {
	t.Helper()
	if !res.OK {
		t.Fatalf("Retrieve() not ok: status=%d data=%v", res.Status, res.Data)
	}
	out, ok := res.Data.([]Candidate)
	if !ok {
		t.Fatalf("Retrieve().Data type = %T", res.Data)
	}
	return out
}

func atOrigin(req Request) Request {
	req.UserLat = ptr(0.0)
	req.UserLng = ptr(0.0)
	return req
}

func TestRetrieveEqualPriceOrdersByDistance(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 1000, 3.2), offer(2, 1000, 1.1)}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{})))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].OfferID != 2 || got[0].DistanceKM != 1.1 {
		t.Fatalf("first = offer %d at %v km, want offer 2 at 1.1 km", got[0].OfferID, got[0].DistanceKM)
	}
	if got[1].OfferID != 1 || got[1].DistanceKM != 3.2 {
		t.Fatalf("second = offer %d at %v km, want offer 1 at 3.2 km", got[1].OfferID, got[1].DistanceKM)
	}
}

func TestRetrieveOrdersByPriceThenDistance(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{
		offer(1, 1500, 0.5),
		offer(2, 990, 8),
		offer(3, 990, 2),
		offer(4, 1200, 1),
		offer(5, 990, 2),
	}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{})))
	wantIDs := []int64{3, 5, 2, 4, 1}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].OfferID != id {
			t.Fatalf("got[%d].OfferID = %d, want %d", i, got[i].OfferID, id)
		}
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.PriceCents > cur.PriceCents {
			t.Fatalf("price order broken at %d", i)
		}
		if prev.PriceCents == cur.PriceCents && prev.DistanceKM > cur.DistanceKM {
			t.Fatalf("distance tie-break broken at %d", i)
		}
	}
}

func TestRetrieveDropsOutsideRadiusAndMissingCoordinates(t *testing.T) {
	t.Parallel()

	noLat := offer(3, 100, 1)
	noLat.Lat = nil
	noLng := offer(4, 100, 1)
	noLng.Lng = nil

	source := &fakeSource{rows: []Candidate{offer(1, 500, 4.99), offer(2, 400, 5.2), noLat, noLng}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{RadiusKM: ptr(5.0)})))
	if len(got) != 1 || got[0].OfferID != 1 {
		t.Fatalf("got %+v, want only offer 1", got)
	}
	for _, c := range got {
		if c.DistanceKM > 5.0 {
			t.Fatalf("distance %v exceeds radius", c.DistanceKM)
		}
		if !c.HasCoordinates() {
			t.Fatal("returned candidate without coordinates")
		}
	}
}

func TestRetrieveMaxPriceIsInclusive(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 500, 1), offer(2, 501, 1)}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{MaxPrice: ptr(5.00)})))
	if len(got) != 1 || got[0].OfferID != 1 {
		t.Fatalf("got %+v, want only the 5.00 offer", got)
	}
	if cents := source.filters[0].MaxPriceCents; cents == nil || *cents != 500 {
		t.Fatalf("filter.MaxPriceCents = %v, want 500", cents)
	}
}

func TestRetrieveMaxPriceNeverRoundsUp(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 500, 1), offer(2, 501, 1)}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{MaxPrice: ptr(5.009)})))
	if len(got) != 1 || got[0].OfferID != 1 {
		t.Fatalf("got %+v, want only the 5.00 offer", got)
	}
	if cents := source.filters[0].MaxPriceCents; cents == nil || *cents != 500 {
		t.Fatalf("filter.MaxPriceCents = %v, want 500", cents)
	}
}

func TestRetrieveHugeMaxPriceKeepsEverything(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 500, 1)}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{MaxPrice: ptr(1e17)})))
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if cents := source.filters[0].MaxPriceCents; cents == nil || *cents != math.MaxInt64 {
		t.Fatalf("filter.MaxPriceCents = %v, want MaxInt64", cents)
	}
}

func TestRetrieveRejectsNonFiniteMaxPrice(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 500, 1)}}
	svc := newTestService(t, source, &fakeResolver{})

	res := svc.Retrieve(context.Background(), atOrigin(Request{MaxPrice: ptr(math.Inf(1))}))
	if res.OK || res.Status != http.StatusBadRequest {
		t.Fatalf("Retrieve() = %+v, want 400", res)
	}
	if len(source.filters) != 0 {
		t.Fatalf("source queried %d times, want 0", len(source.filters))
	}
}

func TestRetrieveValidityWindowIsInclusive(t *testing.T) {
	t.Parallel()

	today := DateOf(testToday)
	endsToday := offer(1, 100, 1)
	endsToday.EndDate = today
	endedYesterday := offer(2, 100, 1)
	endedYesterday.EndDate = today.AddDays(-1)
	startsToday := offer(3, 100, 1)
	startsToday.StartDate = today
	startsTomorrow := offer(4, 100, 1)
	startsTomorrow.StartDate = today.AddDays(1)

	source := &fakeSource{rows: []Candidate{endsToday, endedYesterday, startsToday, startsTomorrow}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{})))
	if len(got) != 2 || got[0].OfferID != 1 || got[1].OfferID != 3 {
		t.Fatalf("got %+v, want offers 1 and 3", got)
	}
	if source.filters[0].Today != today {
		t.Fatalf("filter.Today = %s, want %s", source.filters[0].Today, today)
	}
}

func TestRetrieveCategoryAndNameFilters(t *testing.T) {
	t.Parallel()

	cafe := offer(2, 100, 1)
	cafe.Product = "Café Torrado 500g"
	cafe.Category = "bebidas"

	source := &fakeSource{rows: []Candidate{offer(1, 100, 1), cafe}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{Category: "bebidas"})))
	if len(got) != 1 || got[0].OfferID != 2 {
		t.Fatalf("category filter: got %+v", got)
	}
	got = candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{NameFilter: "leite"})))
	if len(got) != 1 || got[0].OfferID != 1 {
		t.Fatalf("name filter: got %+v", got)
	}
}

func TestRetrieveTruncatesAndFormatsPrice(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []Candidate{offer(1, 123450, 1), offer(2, 500, 1), offer(3, 700, 1)}}
	svc := newTestService(t, source, &fakeResolver{})

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{MaxResults: ptr(2)})))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].FormattedPrice != "R$ 5,00" {
		t.Fatalf("FormattedPrice = %q, want %q", got[0].FormattedPrice, "R$ 5,00")
	}

	all := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{})))
	if all[2].FormattedPrice != "R$ 1.234,50" {
		t.Fatalf("FormattedPrice = %q, want %q", all[2].FormattedPrice, "R$ 1.234,50")
	}
}

func TestRetrieveExplicitCoordinatesWinOverIdentity(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{loc: contractx.Location{Lat: 50, Lng: 50}, ok: true}
	svc := newTestService(t, &fakeSource{rows: []Candidate{offer(1, 100, 1)}}, resolver)

	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{UserID: ptr(int64(7))})))
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if len(resolver.calls) != 0 {
		t.Fatalf("resolver called %d times, want 0", len(resolver.calls))
	}
}

func TestRetrieveResolvesIdentity(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{loc: contractx.Location{Lat: 0, Lng: 0}, ok: true}
	svc := newTestService(t, &fakeSource{rows: []Candidate{offer(1, 100, 1)}}, resolver)

	got := candidates(t, svc.Retrieve(context.Background(), Request{UserID: ptr(int64(7)), UserLat: ptr(1.0)}))
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if len(resolver.calls) != 1 || resolver.calls[0] != 7 {
		t.Fatalf("resolver calls = %v, want [7]", resolver.calls)
	}
}

func TestRetrieveWithoutLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]Request{
		"nothing":         {},
		"unresolvable id": {UserID: ptr(int64(9))},
		"only one coord":  {UserLng: ptr(10.0)},
	}
	for name, req := range cases {
		source := &fakeSource{rows: []Candidate{offer(1, 100, 1)}}
		svc := newTestService(t, source, &fakeResolver{ok: false})

		res := svc.Retrieve(context.Background(), req)
		if res.OK {
			t.Fatalf("%s: expected ok=false", name)
		}
		if res.Status != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, res.Status)
		}
		if res.Data != MsgAddressNotFound {
			t.Fatalf("%s: data = %v", name, res.Data)
		}
		if len(source.filters) != 0 {
			t.Fatalf("%s: source must not be queried", name)
		}
	}
}

func TestRetrieveSourceFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeSource{err: errors.New("connection refused")}, &fakeResolver{})
	res := svc.Retrieve(context.Background(), atOrigin(Request{}))
	if res.OK {
		t.Fatal("expected ok=false")
	}
	if res.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Status)
	}
	if _, ok := res.Data.(string); !ok {
		t.Fatalf("data type = %T, want string", res.Data)
	}
}

func TestRetrieveRejectsInvalidBounds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeSource{}, &fakeResolver{})
	for _, req := range []Request{
		atOrigin(Request{RadiusKM: ptr(0.0)}),
		atOrigin(Request{MaxResults: ptr(0)}),
		{UserLat: ptr(91.0), UserLng: ptr(0.0)},
	} {
		if res := svc.Retrieve(context.Background(), req); res.OK || res.Status != http.StatusBadRequest {
			t.Fatalf("Retrieve(%+v) = %+v, want 400", req, res)
		}
	}
}

func TestRetrieveEmptyResultIsOK(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeSource{}, &fakeResolver{})
	got := candidates(t, svc.Retrieve(context.Background(), atOrigin(Request{})))
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}
