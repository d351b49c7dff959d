package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTime(t *testing.T) {
	now := time.Date(2023, 3, 24, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "幾秒前"},
		{time.Minute, "1 分鐘前"},
		{10 * time.Minute, "10 分鐘前"},
		{time.Hour, "1 小時前"},
		{5 * time.Hour, "5 小時前"},
		{30 * time.Hour, "1 天前"},
		{3 * day, "3 天前"},
		{40 * day, "1 個月前"},
		{95 * day, "3 個月前"},
		{400 * day, "1 年前"},
		{3 * year, "3 年前"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, diffTime(now.Add(-c.ago), now), c.ago.String())
	}
	assert.Equal(t, "3 天後", diffTime(now.Add(3*day), now))
}

func TestCreatedAtText(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	// 07:04 UTC = 15:04 台北
	ts := time.Date(2023, 3, 21, 7, 4, 0, 0, time.UTC)
	assert.Equal(t, "下午 3:04 ‧ 2023年3月21日", createdAtText(ts, loc))

	ts = time.Date(2023, 3, 20, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "上午 1:30 ‧ 2023年3月21日", createdAtText(ts, loc))
}
