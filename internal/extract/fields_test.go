package extract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFindDay(t *testing.T) {
	ref := day(2025, time.January, 1)

	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"month day", "3/16 吃晚餐", day(2025, time.March, 16)},
		{"full date", "2024/12/31 跨年", day(2024, time.December, 31)},
		{"dashed", "3-16 見面", day(2025, time.March, 16)},
		{"last date wins", "原本約3/15 改成3/16了", day(2025, time.March, 16)},
		{"invalid skipped", "編號13/45 約3/16", day(2025, time.March, 16)},
		{"impossible day ignored", "2/31 有空嗎", day(2025, time.January, 1)},
		{"today", "今天晚上", day(2025, time.January, 1)},
		{"tomorrow", "明天中午", day(2025, time.January, 2)},
		{"day after tomorrow", "後天出發", day(2025, time.January, 3)},
		{"later relative word wins", "今天不行 明天吧", day(2025, time.January, 2)},
		{"english", "see you TOMORROW", day(2025, time.January, 2)},
		{"nothing", "吃個飯", day(2025, time.January, 1)},
		{"phone number ignored", "電話 0912-345678", day(2025, time.January, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findDay(tt.text, ref)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestFindClock(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantH    int
		wantM    int
		wantNone bool
	}{
		{"simple", "19:30 吃飯", 19, 30, false},
		{"full width colon", "19：30 吃飯", 19, 30, false},
		{"rich line preferred", "9:00 之類的\n3/16 19:30 聚餐", 19, 30, false},
		{"last wins without rich line", "9:00 或\n10:30 吧", 10, 30, false},
		{"invalid hour skipped", "25:99 亂碼 18:00 吃飯", 18, 0, false},
		{"no clock", "吃晚餐", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m, ok := findClock(tt.text)
			if tt.wantNone {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantH, h)
			assert.Equal(t, tt.wantM, m)
		})
	}
}

func TestFindAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"suffix unit", "晚餐 420元", "420"},
		{"suffix kuai", "飲料35.5塊", "35.5"},
		{"prefix symbol", "NT$120 的車票", "120"},
		{"dollar with space", "$ 45.9", "45.9"},
		{"first currency match wins", "訂金100元 尾款200元", "100"},
		{"earliest across patterns", "NT$120 之後再補300元", "120"},
		{"bare number on own line", "午餐\n240", "240"},
		{"bare number just above floor", "午餐\n61", "61"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findAmount(tt.text)
			require.NotNil(t, got)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
		})
	}
}

func TestFindAmount_None(t *testing.T) {
	texts := []string{
		"吃晚餐",
		"19:30",
		"午餐\n45",
		"午餐\n60",
		"吃了 420", // inline bare number, not alone on a line
	}
	for _, text := range texts {
		assert.Nil(t, findAmount(text), "text: %q", text)
	}
}

func TestFindTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"strips date and clock", "3/16 19:30 西門町吃晚餐 420元", "西門町吃晚餐 420元"},
		{"strips pronouns", "我們想要去潛水", "去潛水"},
		{"skips digit only line", "240\n生日禮物預算", "生日禮物預算"},
		{"skips noise line", "已讀\n晚餐聚會", "晚餐聚會"},
		{"english pronoun needs boundary", "went hiking", "went hiking"},
		{"english pronoun stripped", "we went hiking", "went hiking"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTitle(tt.text))
		})
	}
}

func TestFindTitle_Fallbacks(t *testing.T) {
	// No line survives stripping; the text before the first sentence
	// ender is used.
	assert.Equal(t, "3/16 19:30", findTitle("3/16 19:30.\n12:00"))

	// No sentence ender either: the text comes back verbatim.
	assert.Equal(t, "3/16 19:30", findTitle("3/16 19:30"))
}
