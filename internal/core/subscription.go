package core

import (
	"math"
	"time"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

const (
	trialDays          = 7
	premiumNominalDays = 30
	hoursPerBillingDay = 24
)

type SubscriptionStatus struct {
	IsValid       bool `json:"is_valid"`
	DaysRemaining int  `json:"days_remaining"`
	IsPremium     bool `json:"is_premium"`
}

// CheckSubscription decides whether a user may run searches. Premium is
// always valid. Trial accounts count elapsed days with a ceiling, so an
// account created 6 days and 1 hour ago has 7 elapsed days; the trial ends
// after the 7th day (elapsed 8 and beyond). Pure function of its arguments.
func CheckSubscription(plan store.Plan, createdAt, now time.Time) SubscriptionStatus {
	if plan == store.PlanPremium {
		return SubscriptionStatus{IsValid: true, DaysRemaining: premiumNominalDays, IsPremium: true}
	}

	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedDays := int(math.Ceil(elapsed.Hours() / hoursPerBillingDay))

	remaining := trialDays - elapsedDays
	if remaining < 0 {
		remaining = 0
	}

	return SubscriptionStatus{
		IsValid:       elapsedDays <= trialDays,
		DaysRemaining: remaining,
		IsPremium:     false,
	}
}
