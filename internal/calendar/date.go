package calendar

import (
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "academic-calendar/backend/pkg/errors"
)

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
)

// Date 纯日历日期（无时间、无时区）。零值表示"未设置"。
type Date struct {
	t     time.Time
	valid bool
}

// NewDate 按年月日构造日期，越界的月/日按公历规则自动进位。
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// ParseDate 严格解析 YYYY-MM-DD。空串返回未设置日期且无错误。
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.ParseInLocation(isoLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", pkgerrors.ErrInvalidDate, s)
	}
	return Date{t: t, valid: true}, nil
}

// MustParseDate 解析失败时返回未设置日期
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		return Date{}
	}
	return d
}

// IsSet 日期是否已设置
func (d Date) IsSet() bool { return d.valid }

// AddDays 返回偏移 n 天后的日期（n 可为负）。未设置的日期原样返回未设置。
func (d Date) AddDays(n int) Date {
	if !d.valid {
		return Date{}
	}
	return Date{t: d.t.AddDate(0, 0, n), valid: true}
}

// String 内部存储格式 YYYY-MM-DD，未设置时为空串
func (d Date) String() string {
	if !d.valid {
		return ""
	}
	return d.t.Format(isoLayout)
}

// Display 展示格式 DD/MM/YYYY，未设置时返回 unset
func (d Date) Display(unset string) string {
	if !d.valid {
		return unset
	}
	return d.t.Format(displayLayout)
}

// Time 返回 UTC 零点时间，未设置时为零值
func (d Date) Time() time.Time {
	if !d.valid {
		return time.Time{}
	}
	return d.t
}

// Equal 两个日期是否相同（均未设置也视为相同）
func (d Date) Equal(o Date) bool {
	if d.valid != o.valid {
		return false
	}
	return !d.valid || d.t.Equal(o.t)
}

// MarshalJSON 编码为 "YYYY-MM-DD" 或 ""
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 格式错误的日期按未设置处理
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*d = Date{}
		return nil
	}
	*d = MustParseDate(s)
	return nil
}

// AddDays 对 YYYY-MM-DD 字符串做日期偏移，非法输入返回空串
func AddDays(date string, n int) string {
	return MustParseDate(date).AddDays(n).String()
}

// FormatDisplay 将 YYYY-MM-DD 转为 DD/MM/YYYY，未设置或非法时返回 unset
func FormatDisplay(date string, unset string) string {
	return MustParseDate(date).Display(unset)
}
