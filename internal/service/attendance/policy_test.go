package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_IsLate(t *testing.T) {
	d := date(2025, 1, 10)

	tests := []struct {
		name    string
		grace   int
		clockIn time.Time
		want    bool
	}{
		{"on time", 15, istTime(2025, 1, 10, 8, 55), false},
		{"inside grace", 15, istTime(2025, 1, 10, 9, 15), false},
		{"past grace", 15, istTime(2025, 1, 10, 9, 16), true},
		{"short grace", 10, istTime(2025, 1, 10, 9, 15), true},
		{"no grace", 0, istTime(2025, 1, 10, 9, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPolicy(t, tt.grace)
			assert.Equal(t, tt.want, p.IsLate(tt.clockIn.UTC(), d))
		})
	}
}

func TestPolicy_LocalDate(t *testing.T) {
	p := testPolicy(t, 15)

	// 20:00 UTC is already the next day at +05:30.
	got := p.LocalDate(time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2025, 1, 11), got)

	got = p.LocalDate(time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, date(2025, 1, 10), got)
}

func TestPolicy_Hours(t *testing.T) {
	p := testPolicy(t, 15)
	in := istTime(2025, 1, 10, 9, 15)
	out := istTime(2025, 1, 10, 17, 45)

	work, brk, overtime := p.Hours(in, out, nil, nil)
	assert.InDelta(t, 8.5, work, 0.001)
	assert.Zero(t, brk)
	assert.InDelta(t, 0.5, overtime, 0.001)

	bs := istTime(2025, 1, 10, 13, 0)
	be := istTime(2025, 1, 10, 13, 45)
	work, brk, overtime = p.Hours(in, out, &bs, &be)
	assert.InDelta(t, 7.75, work, 0.001)
	assert.InDelta(t, 0.75, brk, 0.001)
	assert.Zero(t, overtime)
}

func TestPolicy_HoursRoundsToTwoDecimals(t *testing.T) {
	p := testPolicy(t, 15)
	in := istTime(2025, 1, 10, 9, 0)
	out := in.Add(8*time.Hour + 20*time.Minute)

	work, _, overtime := p.Hours(in, out, nil, nil)
	assert.Equal(t, 8.33, work)
	assert.Equal(t, 0.33, overtime)
}

func TestNewPolicy_Invalid(t *testing.T) {
	_, err := NewPolicy(config.AttendanceConfig{UTCOffset: "IST", WorkStart: "09:00", StandardShiftHours: 8})
	require.Error(t, err)

	_, err = NewPolicy(config.AttendanceConfig{UTCOffset: "+05:30", WorkStart: "9am", StandardShiftHours: 8})
	require.Error(t, err)

	_, err = NewPolicy(config.AttendanceConfig{UTCOffset: "+05:30", WorkStart: "09:00", StandardShiftHours: 0})
	require.Error(t, err)
}
