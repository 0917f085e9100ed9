// Package pricing holds the pure calculators of the rental core: rental
// totals, geodesic distance, delivery cost, late fees and the simulated
// courier schedule. Nothing in here touches the database or the clock beyond
// the instants passed in.
package pricing

import (
	"math"
	"time"
)

// PlatformFeeRate is the marketplace cut taken at payment time.
const PlatformFeeRate = 0.10

// RoundMoney rounds a rupee amount to two decimal places.
func RoundMoney(amount float64) float64 {
	if math.IsNaN(amount) {
		return 0
	}
	return math.Round(amount*100) / 100
}

// RentalDays computes the billable duration: ceil((end-start)/24h). Callers
// validate end > start before charging.
func RentalDays(start, end time.Time) int32 {
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0
	}
	return int32(math.Ceil(hours / 24))
}

// RentalPrice is days x daily rate, rounded to paise.
func RentalPrice(days int32, pricePerDay float64) float64 {
	return RoundMoney(float64(days) * pricePerDay)
}

// PlatformFee computes the 10% marketplace fee on a rental total.
func PlatformFee(totalPrice float64) float64 {
	return RoundMoney(totalPrice * PlatformFeeRate)
}
