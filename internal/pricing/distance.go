package pricing

import (
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// Delivery cost policy: flat base fee, a cheaper rate for the first 10 km and
// a steeper one beyond, plus a handling surcharge for bulky or fragile
// categories. Amounts are rupees.
const (
	deliveryBaseFee = 10.0
	nearDistanceKm  = 10.0
	nearRatePerKm   = 10.0
	farRatePerKm    = 20.0
)

// Surcharges match by case-insensitive substring so "Large Speakers" and
// "speakers" both hit the speaker rate. First match wins.
var categorySurcharges = []struct {
	match string
	fee   float64
}{
	{"tv", 150},
	{"drone", 80},
	{"speaker", 100},
}

// HaversineKm returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degToRad(lat2 - lat1)
	dLng := degToRad(lng2 - lng1)

	rLat1 := degToRad(lat1)
	rLat2 := degToRad(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// DeliveryCost maps a courier distance and item category to a delivery fee.
// Negative or NaN distances are treated as zero rather than propagated.
func DeliveryCost(distanceKm float64, category string) float64 {
	if math.IsNaN(distanceKm) || distanceKm < 0 {
		distanceKm = 0
	}

	cost := deliveryBaseFee
	if distanceKm <= nearDistanceKm {
		cost += distanceKm * nearRatePerKm
	} else {
		cost += nearDistanceKm*nearRatePerKm + (distanceKm-nearDistanceKm)*farRatePerKm
	}

	lower := strings.ToLower(category)
	for _, s := range categorySurcharges {
		if strings.Contains(lower, s.match) {
			cost += s.fee
			break
		}
	}

	return RoundMoney(cost)
}
