package dateutil

import (
	"time"
)

const layout = "2006-01-02"

// Normalize 截断到日期粒度（UTC 零点），所有日期比较前先归一化
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date 构造 UTC 日期
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse 解析 YYYY-MM-DD
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// Format 输出 YYYY-MM-DD
func Format(t time.Time) string {
	return t.Format(layout)
}
