package tariff

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateKeyOf_NormalizesToUTC(t *testing.T) {
	// 00:30 at UTC+1 is still the previous UTC date.
	ts := mustTime(t, "2024-01-16T00:30:00+01:00")
	if got := DateKeyOf(ts); got != "2024-01-15" {
		t.Errorf("DateKeyOf = %s, want 2024-01-15", got)
	}
	if got := DateKeyOf(ts).Month(); got != "2024-01" {
		t.Errorf("Month = %s, want 2024-01", got)
	}
}

func TestMinuteOfDay_UsesUTCClock(t *testing.T) {
	ts := mustTime(t, "2024-01-15T09:30:00+02:00") // 07:30 UTC
	if got := MinuteOfDay(ts); got != 7*60+30 {
		t.Errorf("MinuteOfDay = %d, want %d", got, 7*60+30)
	}
}

func TestWeekdayKey_UsesUTCWeekday(t *testing.T) {
	// Jan 15 2024 is a Monday; 00:30 at UTC+1 is still Sunday Jan 14 in UTC.
	if got := WeekdayKey(mustTime(t, "2024-01-15T12:00:00Z")); got != "monday" {
		t.Errorf("WeekdayKey = %s, want monday", got)
	}
	if got := WeekdayKey(mustTime(t, "2024-01-15T00:30:00+01:00")); got != "sunday" {
		t.Errorf("WeekdayKey = %s, want sunday", got)
	}
}

func TestReading_UnmarshalsImportShape(t *testing.T) {
	var r Reading
	if err := json.Unmarshal([]byte(`{"startTime": "2024-01-15T07:00:00Z", "kwh": 1.5}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := DateKeyOf(r.StartTime); got != "2024-01-15" {
		t.Errorf("date = %s, want 2024-01-15", got)
	}
	if !r.Kwh.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("kwh = %s, want 1.5", r.Kwh)
	}
}

func TestTotalKwh(t *testing.T) {
	readings := []Reading{
		{StartTime: time.Now(), Kwh: decimal.NewFromFloat(1.5)},
		{StartTime: time.Now(), Kwh: decimal.NewFromFloat(0.5)},
	}
	if got := TotalKwh(readings); !got.Equal(decimal.NewFromFloat(2.0)) {
		t.Errorf("TotalKwh = %s, want 2", got)
	}
	if got := TotalKwh(nil); !got.Equal(decimal.Zero) {
		t.Errorf("TotalKwh(nil) = %s, want 0", got)
	}
}
