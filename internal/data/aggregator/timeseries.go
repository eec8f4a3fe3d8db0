package aggregator

import "time"

// SeriesValue is the accumulated activity for one key inside one bucket.
type SeriesValue struct {
	Tokens  int64   `json:"tokens"`
	Cost    float64 `json:"cost"`
	CostEur float64 `json:"costEur"`
}

// SeriesPoint is one calendar-day bucket. Every UTC day in the window is
// present even with zero activity: chart consumers rely on a stable
// x-axis.
type SeriesPoint struct {
	Date   string                 `json:"date"`
	Totals map[string]SeriesValue `json:"totals"`
}

// HourlyPoint is one hour-of-day bucket for the today view.
type HourlyPoint struct {
	Hour   int                    `json:"hour"`
	Label  string                 `json:"label"`
	Totals map[string]SeriesValue `json:"totals"`
}

// KeyedEvent is one usage sample attributed to a series key (model id or
// task id).
type KeyedEvent struct {
	Timestamp int64
	Key       string
	Tokens    int64
	Cost      float64
}

func startOfUTCDay(millis int64) time.Time {
	t := time.UnixMilli(millis).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// buildDailySeries folds events into zero-filled calendar-day buckets
// spanning [cutoff, now]. Events outside the window are excluded.
func buildDailySeries(events []KeyedEvent, cutoff, now int64, usdToEur float64) []SeriesPoint {
	accum := make(map[string]map[string]SeriesValue)

	for _, ev := range events {
		if ev.Timestamp < cutoff || ev.Timestamp > now {
			continue
		}
		date := time.UnixMilli(ev.Timestamp).UTC().Format("2006-01-02")

		day, ok := accum[date]
		if !ok {
			day = make(map[string]SeriesValue)
			accum[date] = day
		}
		v := day[ev.Key]
		v.Tokens += ev.Tokens
		v.Cost += ev.Cost
		v.CostEur += ev.Cost * usdToEur
		day[ev.Key] = v
	}

	var series []SeriesPoint
	end := startOfUTCDay(now)
	for d := startOfUTCDay(cutoff); !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		totals := accum[date]
		if totals == nil {
			totals = map[string]SeriesValue{}
		}
		series = append(series, SeriesPoint{Date: date, Totals: totals})
	}

	return series
}

// buildHourlySeries folds events into zero-filled hour buckets spanning
// [cutoff, now]. Used for the today view, where cutoff is UTC midnight.
func buildHourlySeries(events []KeyedEvent, cutoff, now int64, usdToEur float64) []HourlyPoint {
	accum := make(map[int64]map[string]SeriesValue)

	for _, ev := range events {
		if ev.Timestamp < cutoff || ev.Timestamp > now {
			continue
		}
		hour := time.UnixMilli(ev.Timestamp).UTC().Truncate(time.Hour).UnixMilli()

		bucket, ok := accum[hour]
		if !ok {
			bucket = make(map[string]SeriesValue)
			accum[hour] = bucket
		}
		v := bucket[ev.Key]
		v.Tokens += ev.Tokens
		v.Cost += ev.Cost
		v.CostEur += ev.Cost * usdToEur
		bucket[ev.Key] = v
	}

	var series []HourlyPoint
	end := time.UnixMilli(now).UTC().Truncate(time.Hour)
	for h := time.UnixMilli(cutoff).UTC().Truncate(time.Hour); !h.After(end); h = h.Add(time.Hour) {
		totals := accum[h.UnixMilli()]
		if totals == nil {
			totals = map[string]SeriesValue{}
		}
		series = append(series, HourlyPoint{
			Hour:   h.Hour(),
			Label:  h.Format("15:00"),
			Totals: totals,
		})
	}

	return series
}
