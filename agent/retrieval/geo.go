package retrieval

import (
	"math"

	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between a and b.
func HaversineKM(a, b contractx.Location) float64 {
	p1 := radians(a.Lat)
	p2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(math.Min(1, h)))
}

func RoundKM(d float64) float64 {
	return math.Round(d*100) / 100
}

func validCoordinates(loc contractx.Location) bool {
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lng >= -180 && loc.Lng <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
