package services

import "time"

// ServiceWindow computes the current service period, the daily cutoff used
// to group orders into one delivery shift.
//
// At or after openHour the period is [today openHour, tomorrow 00:00).
// Before openHour it reaches back into yesterday evening:
// [yesterday carryHour, today openHour).
func ServiceWindow(now time.Time, openHour, carryHour int) (time.Time, time.Time) {
	y, m, d := now.Date()
	loc := now.Location()

	if now.Hour() >= openHour {
		start := time.Date(y, m, d, openHour, 0, 0, 0, loc)
		end := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		return start, end
	}

	start := time.Date(y, m, d, carryHour, 0, 0, 0, loc).AddDate(0, 0, -1)
	end := time.Date(y, m, d, openHour, 0, 0, 0, loc)
	return start, end
}
