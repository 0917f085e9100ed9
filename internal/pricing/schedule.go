package pricing

import (
	"math/rand/v2"
	"strings"
	"time"
)

// Simulated courier timing policy. These are business constants tuned for a
// plausible tracking experience, not a physical model: en-route within
// roughly 1.5-2 hours, delivery distance-scaled with a 3-hour floor and a
// 12-hour ceiling, and the jitter keeps repeated rentals from ticking over
// in lockstep.
const (
	minEnRouteMinutes    = 60
	baseEnRouteMinutes   = 90
	enRouteJitterMinutes = 30

	minTotalMinutes    = 180
	maxTotalMinutes    = 720
	minutesPerKm       = 15
	totalJitterMinutes = 60

	heavyFactorMin = 1.1
	heavyFactorMax = 1.3
)

// Categories that ship slower: bulky or fragile items get extra handling
// time. Matched by case-insensitive substring.
var heavyCategories = []string{"tv", "drone", "speaker", "camera", "laptop", "gaming"}

// DeliverySchedule is the precomputed timing contract for one courier leg.
// It is computed exactly once, when the leg's fee is settled, and the
// simulation engine only ever compares the clock against it.
type DeliverySchedule struct {
	ExpectedEnRouteAt   time.Time
	ExpectedDeliveredAt time.Time
}

// IsHeavyCategory reports whether the category gets the handling multiplier.
func IsHeavyCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, h := range heavyCategories {
		if strings.Contains(lower, h) {
			return true
		}
	}
	return false
}

// ComputeDeliverySchedule derives the expected en-route and delivered
// instants for a leg shipped at shippedAt. The en-route offset never exceeds
// two hours and the total never drops below three, so the ordering
// en-route < delivered holds structurally.
func ComputeDeliverySchedule(shippedAt time.Time, distanceKm float64, category string) DeliverySchedule {
	enRouteMinutes := float64(baseEnRouteMinutes + rand.IntN(enRouteJitterMinutes+1))
	if enRouteMinutes < minEnRouteMinutes {
		enRouteMinutes = minEnRouteMinutes
	}

	totalMinutes := distanceKm*minutesPerKm + float64(rand.IntN(totalJitterMinutes+1))
	if IsHeavyCategory(category) {
		totalMinutes *= heavyFactorMin + rand.Float64()*(heavyFactorMax-heavyFactorMin)
	}
	if totalMinutes < minTotalMinutes {
		totalMinutes = minTotalMinutes
	}
	if totalMinutes > maxTotalMinutes {
		totalMinutes = maxTotalMinutes
	}

	return DeliverySchedule{
		ExpectedEnRouteAt:   shippedAt.Add(time.Duration(enRouteMinutes) * time.Minute),
		ExpectedDeliveredAt: shippedAt.Add(time.Duration(totalMinutes) * time.Minute),
	}
}
