// Package stats reshapes flat per-event count rows into per-group,
// date-indexed series ready for charting.
package stats

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Tuple is one row of a three-column statistics query. Which cell holds
// the group key, the date and the value is chosen by Options.Order.
type Tuple [3]any

// Series is a per-group count series. When the date column is temporal,
// Values is keyed by normalized day; otherwise the raw keys pass
// through untouched.
type Series struct {
	Key    string           `json:"key"`
	Values map[string]int64 `json:"values"`
}

// Options controls reshaping. The zero value selects the natural column
// order (group, date, value), derives the padding span from the data and
// emits ISO-8601 date keys.
type Options struct {
	// Order holds the tuple positions of group, date and value.
	Order [3]int

	// Start and End widen the padding span beyond what the data covers.
	// End is exclusive.
	Start *time.Time
	End   *time.Time

	// UnixKeys switches date keys from ISO-8601 to unix-epoch seconds.
	UnixKeys bool
}

// Reshape pivots tuples into one series per distinct group value, sorted
// ascending by group. Temporal date columns are normalized to UTC days
// and padded over the union span of all groups, so every series shares
// one time axis. Empty input yields an empty result.
func Reshape(tuples []Tuple, opts Options) ([]Series, error) {
	if len(tuples) == 0 {
		return nil, nil
	}

	order := opts.Order
	if order == [3]int{} {
		order = [3]int{0, 1, 2}
	}
	for _, idx := range order {
		if idx < 0 || idx > 2 {
			return nil, fmt.Errorf("order index out of range: %d", idx)
		}
	}

	temporal := true
	for _, t := range tuples {
		if _, ok := t[order[1]].(time.Time); !ok {
			temporal = false
			break
		}
	}

	groups := make(map[string][]Tuple)
	for _, t := range tuples {
		key := cellKey(t[order[0]])
		groups[key] = append(groups[key], t)
	}
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if !temporal {
		result := make([]Series, 0, len(keys))
		for _, key := range keys {
			values := make(map[string]int64, len(groups[key]))
			for _, t := range groups[key] {
				v, err := cellValue(t[order[2]])
				if err != nil {
					return nil, err
				}
				values[cellKey(t[order[1]])] = v
			}
			result = append(result, Series{Key: key, Values: values})
		}
		return result, nil
	}

	// The span is shared across all groups so their series stay
	// comparable on one axis: min start, max end over the whole batch,
	// widened by any caller-supplied bounds.
	start := day(tuples[0][order[1]].(time.Time))
	end := start
	for _, t := range tuples[1:] {
		d := day(t[order[1]].(time.Time))
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	end = end.AddDate(0, 0, 1) // exclusive
	if opts.Start != nil && day(*opts.Start).Before(start) {
		start = day(*opts.Start)
	}
	if opts.End != nil && day(*opts.End).After(end) {
		end = day(*opts.End)
	}

	result := make([]Series, 0, len(keys))
	for _, key := range keys {
		data := make(map[time.Time]int64, len(groups[key]))
		for _, t := range groups[key] {
			v, err := cellValue(t[order[2]])
			if err != nil {
				return nil, err
			}
			data[day(t[order[1]].(time.Time))] += v
		}
		result = append(result, Series{Key: key, Values: PadDates(start, end, data, opts.UnixKeys)})
	}
	return result, nil
}

// PadDates fills every day in [start, end) with the sparse counts in
// data, defaulting missing days to zero. The span is clamped to at least
// one day. Keys are ISO-8601 dates, or unix-epoch seconds on request.
func PadDates(start, end time.Time, data map[time.Time]int64, unixKeys bool) map[string]int64 {
	start = day(start)
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		days = 1
	}
	result := make(map[string]int64, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		result[dateKey(d, unixKeys)] = data[d]
	}
	return result
}

// day truncates t to its UTC calendar day.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(d time.Time, unixKeys bool) string {
	if unixKeys {
		return strconv.FormatInt(d.Unix(), 10)
	}
	return d.Format("2006-01-02")
}

func cellKey(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case time.Time:
		return dateKey(day(v), false)
	default:
		return fmt.Sprint(v)
	}
}

func cellValue(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("value cell is not numeric: %T", v)
	}
}
