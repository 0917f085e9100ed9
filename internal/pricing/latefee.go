package pricing

import (
	"math"
	"time"

	"gearshare-backend/internal/domain"
)

// Return window policy: a rental may be returned free of charge for 36 hours
// past its end date. Between 36 and 48 hours only a flat half-day rate
// applies. Beyond 48 hours every started 24-hour block costs one full daily
// rate on top of the half-day charge.
const (
	ReturnGraceHours   = 36.0
	halfDayCutoffHours = 48.0
)

// LateFee is the result of CalculateLateFee. DaysLate is fractional (0.5 for
// the half-day band) and all fields are non-negative.
type LateFee struct {
	Amount    float64 `json:"late_fee"`
	HoursLate float64 `json:"hours_late"`
	DaysLate  float64 `json:"days_late"`
	IsLate    bool    `json:"is_late"`
}

// CalculateLateFee computes the fee owed when a return is initiated at
// returnAt for a rental that ended at endDate. A NaN or negative daily rate
// coerces to zero instead of propagating; this guard is part of the contract,
// not an accident.
func CalculateLateFee(endDate, returnAt time.Time, dailyRate float64) LateFee {
	if math.IsNaN(dailyRate) || dailyRate < 0 {
		dailyRate = 0
	}

	hoursLate := returnAt.Sub(endDate).Hours()
	if hoursLate < 0 {
		hoursLate = 0
	}
	hoursLate = math.Round(hoursLate*100) / 100

	if hoursLate <= ReturnGraceHours {
		return LateFee{HoursLate: hoursLate}
	}

	if hoursLate <= halfDayCutoffHours {
		return LateFee{
			Amount:    RoundMoney(dailyRate / 2),
			HoursLate: hoursLate,
			DaysLate:  0.5,
			IsLate:    true,
		}
	}

	// Past the half-day band: one full daily rate per complete 24h block
	// beyond 48h, and a partial remaining block rounds up to a full day.
	overHours := hoursLate - halfDayCutoffHours
	fullDays := math.Floor(overHours / 24)
	if overHours > fullDays*24 {
		fullDays++
	}

	return LateFee{
		Amount:    RoundMoney(dailyRate/2 + fullDays*dailyRate),
		HoursLate: hoursLate,
		DaysLate:  0.5 + fullDays,
		IsLate:    true,
	}
}

// ReturnWindow reports where a rental stands relative to its grace window.
type ReturnWindow struct {
	State domain.ReturnWindowState `json:"state"`
	// HoursRemaining until the grace deadline (not_started and open).
	HoursRemaining float64 `json:"hours_remaining,omitempty"`
	// HoursOverdue past the grace deadline (overdue only).
	HoursOverdue float64 `json:"hours_overdue,omitempty"`
}

// ReturnWindowRemaining classifies now against endDate's 36-hour grace
// window.
func ReturnWindowRemaining(endDate, now time.Time) ReturnWindow {
	deadline := endDate.Add(time.Duration(ReturnGraceHours * float64(time.Hour)))

	if now.Before(endDate) {
		return ReturnWindow{
			State:          domain.ReturnWindowNotStarted,
			HoursRemaining: roundHours(deadline.Sub(now)),
		}
	}
	if now.Before(deadline) {
		return ReturnWindow{
			State:          domain.ReturnWindowOpen,
			HoursRemaining: roundHours(deadline.Sub(now)),
		}
	}
	return ReturnWindow{
		State:        domain.ReturnWindowOverdue,
		HoursOverdue: roundHours(now.Sub(deadline)),
	}
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
