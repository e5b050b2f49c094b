package usage

import "time"

// Every user starts on the Starter plan: 10 deck generations per week.
const (
	defaultPlan  = "Starter"
	defaultLimit = 10
	usagePeriod  = 7 * 24 * time.Hour
)

func defaultUsage() Usage {
	return Usage{
		Plan:     defaultPlan,
		Limit:    defaultLimit,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(usagePeriod),
	}
}
