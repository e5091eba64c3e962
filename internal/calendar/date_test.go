package calendar

import (
	"encoding/json"
	"errors"
	"testing"

	pkgerrors "academic-calendar/backend/pkg/errors"
)

func TestParseDate_Valid(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate 应成功: %v", err)
	}
	if !d.IsSet() {
		t.Fatal("日期应已设置")
	}
	if d.String() != "2024-02-29" {
		t.Errorf("期望 2024-02-29，实际=%s", d.String())
	}
}

func TestParseDate_Empty(t *testing.T) {
	d, err := ParseDate("")
	if err != nil {
		t.Fatalf("空串不应报错: %v", err)
	}
	if d.IsSet() {
		t.Error("空串应解析为未设置")
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"2024-13-01", "2023-02-29", "01/02/2024", "2024-1-1", "abc"} {
		_, err := ParseDate(s)
		if !errors.Is(err, pkgerrors.ErrInvalidDate) {
			t.Errorf("%q: 期望 ErrInvalidDate，实际: %v", s, err)
		}
	}
}

func TestAddDays_MonthAndYearRollover(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2023-02-28", 1, "2023-03-01"},
		{"2024-12-31", 1, "2025-01-01"},
		{"2024-03-01", -1, "2024-02-29"},
		{"2024-01-01", 120, "2024-04-30"},
		{"2024-01-01", 180, "2024-06-29"},
		{"2024-01-01", 0, "2024-01-01"},
	}
	for _, c := range cases {
		if got := AddDays(c.in, c.n); got != c.want {
			t.Errorf("AddDays(%s, %d): 期望 %s，实际 %s", c.in, c.n, c.want, got)
		}
	}
}

func TestAddDays_UnsetOrMalformed(t *testing.T) {
	if got := AddDays("", 10); got != "" {
		t.Errorf("未设置日期应返回空串，实际=%q", got)
	}
	if got := AddDays("not-a-date", 10); got != "" {
		t.Errorf("非法日期应返回空串，实际=%q", got)
	}
	if (Date{}).AddDays(5).IsSet() {
		t.Error("未设置日期偏移后仍应为未设置")
	}
}

func TestAddDays_RoundTrip(t *testing.T) {
	start := NewDate(2023, 11, 15)
	for _, n := range []int{-1000, -366, -1, 0, 1, 15, 59, 365, 1461} {
		got := start.AddDays(n).AddDays(-n)
		if !got.Equal(start) {
			t.Errorf("n=%d: 往返后期望 %s，实际 %s", n, start, got)
		}
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := FormatDisplay("2024-06-10", ""); got != "10/06/2024" {
		t.Errorf("期望 10/06/2024，实际=%s", got)
	}
	if got := FormatDisplay("", "-"); got != "-" {
		t.Errorf("未设置应返回 -，实际=%s", got)
	}
	if got := FormatDisplay("", ""); got != "" {
		t.Errorf("未设置应返回空串，实际=%s", got)
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}{A: NewDate(2024, 1, 1)})
	if err != nil {
		t.Fatalf("Marshal 失败: %v", err)
	}
	if string(b) != `{"a":"2024-01-01","b":""}` {
		t.Errorf("编码结果不符: %s", b)
	}

	var out struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2024-01-01","b":"garbage"}`), &out); err != nil {
		t.Fatalf("Unmarshal 失败: %v", err)
	}
	if out.A.String() != "2024-01-01" {
		t.Errorf("期望 2024-01-01，实际=%s", out.A)
	}
	if out.B.IsSet() {
		t.Error("非法日期应解码为未设置")
	}
}
