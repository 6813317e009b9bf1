package api

import "fmt"

// Common cron expressions accepted by the scheduler
const (
	CronEveryMinute     = "* * * * *"
	CronEvery5Minutes   = "*/5 * * * *"
	CronEvery15Minutes  = "*/15 * * * *"
	CronEvery30Minutes  = "*/30 * * * *"
	CronHourly          = "0 * * * *"
	CronDailyAtMidnight = "0 0 * * *"
	CronDailyAt9AM      = "0 9 * * *"
	CronWeeklyMonday9AM = "0 9 * * 1"
	CronMonthlyFirst9AM = "0 9 1 * *"
)

// Timezones lists common timezone identifiers offered by the console
var Timezones = []string{
	"UTC",
	"America/New_York",
	"America/Chicago",
	"America/Denver",
	"America/Los_Angeles",
	"Europe/London",
	"Europe/Paris",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// DailySchedule builds a daily cron schedule
func DailySchedule(hour, minute int, timezone string) Schedule {
	return Schedule{
		CronExpression: fmt.Sprintf("%d %d * * *", minute, hour),
		Timezone:       timezone,
	}
}

// HourlySchedule builds an hourly cron schedule
func HourlySchedule(minute int, timezone string) Schedule {
	return Schedule{
		CronExpression: fmt.Sprintf("%d * * * *", minute),
		Timezone:       timezone,
	}
}

// WeeklySchedule builds a weekly cron schedule; dayOfWeek is 0 (Sunday) to 6
func WeeklySchedule(dayOfWeek, hour, minute int, timezone string) Schedule {
	return Schedule{
		CronExpression: fmt.Sprintf("%d %d * * %d", minute, hour, dayOfWeek),
		Timezone:       timezone,
	}
}

// MonthlySchedule builds a monthly cron schedule
func MonthlySchedule(dayOfMonth, hour, minute int, timezone string) Schedule {
	return Schedule{
		CronExpression: fmt.Sprintf("%d %d %d * *", minute, hour, dayOfMonth),
		Timezone:       timezone,
	}
}

// IntervalSchedule builds an every-N-minutes cron schedule
func IntervalSchedule(intervalMinutes int, timezone string) Schedule {
	return Schedule{
		CronExpression: fmt.Sprintf("*/%d * * * *", intervalMinutes),
		Timezone:       timezone,
	}
}
