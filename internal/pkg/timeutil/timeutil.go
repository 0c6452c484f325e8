package timeutil

import "time"

// HistoryLayout matches the timestamp format the history endpoints render.
const HistoryLayout = "2006-01-02T15:04:05"

func NowUnix() int64 {
	return time.Now().Unix()
}

func FormatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(HistoryLayout)
}
