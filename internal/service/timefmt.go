package service

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

// zhTWMagnitudes 繁体中文相对时间，阈值与常见前端库一致
var zhTWMagnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "幾秒%s", DivBy: time.Second},
	{D: 90 * time.Second, Format: "1 分鐘%s", DivBy: time.Second},
	{D: 45 * time.Minute, Format: "%d 分鐘%s", DivBy: time.Minute},
	{D: 90 * time.Minute, Format: "1 小時%s", DivBy: time.Second},
	{D: 22 * time.Hour, Format: "%d 小時%s", DivBy: time.Hour},
	{D: 36 * time.Hour, Format: "1 天%s", DivBy: time.Second},
	{D: 26 * day, Format: "%d 天%s", DivBy: day},
	{D: 45 * day, Format: "1 個月%s", DivBy: time.Second},
	{D: 320 * day, Format: "%d 個月%s", DivBy: month},
	{D: 548 * day, Format: "1 年%s", DivBy: time.Second},
	{D: time.Duration(math.MaxInt64), Format: "%d 年%s", DivBy: year},
}

// diffTime 如 "3 天前"
func diffTime(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "前", "後", zhTWMagnitudes)
}

// createdAtText 如 "下午 3:04 ‧ 2023年3月21日"
func createdAtText(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	meridiem := "上午"
	if t.Hour() >= 12 {
		meridiem = "下午"
	}
	return meridiem + " " + t.Format("3:04 ‧ 2006年1月2日")
}
