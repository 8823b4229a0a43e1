//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import "time"

// TimeKey encodes a date as its dense YYYYMMDD surrogate key.
func TimeKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// Calendar generates one time row per day of [start, end], independent
// of any source data. The same span always yields the same rows, so
// regeneration over an existing superset span is a no-op at the store.
func Calendar(start, end time.Time) []TimeRow {
	start = truncateToDay(start)
	end = truncateToDay(end)

	rows := make([]TimeRow, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rows = append(rows, TimeRow{
			TimeID:    TimeKey(d),
			Date:      d,
			Day:       d.Day(),
			Month:     int(d.Month()),
			MonthName: d.Month().String(),
			Quarter:   (int(d.Month())-1)/3 + 1,
			Year:      d.Year(),
			DayOfWeek: int(d.Weekday()),
			DayName:   d.Weekday().String(),
		})
	}
	return rows
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
