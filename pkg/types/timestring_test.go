package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning", input: "09:30", want: "09:30"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "invalid hour", input: "25:00", wantErr: true},
		{name: "invalid minute", input: "10:75", wantErr: true},
		{name: "missing colon", input: "0930", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:30")
	minutes, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   TimeString
		add     int
		want    TimeString
		wantErr bool
	}{
		{name: "simple add", start: "10:00", add: 30, want: "10:30"},
		{name: "cross hour", start: "10:45", add: 30, want: "11:15"},
		{name: "to end of day", start: "23:00", add: 59, want: "23:59"},
		{name: "overflow past midnight", start: "23:45", add: 30, wantErr: true},
		{name: "negative back", start: "10:00", add: -30, want: "09:30"},
		{name: "negative underflow", start: "00:10", add: -30, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.AddMinutes(tt.add)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	// Сравнение должно выполняться по минутам, а не лексикографически
	early := TimeString("09:00")
	late := TimeString("10:30")

	assert.True(t, early.IsBefore(late))
	assert.False(t, late.IsBefore(early))
	assert.True(t, late.IsAfter(early))
	assert.False(t, early.IsAfter(late))
	assert.True(t, early.Equal("09:00"))
	assert.False(t, early.Equal(late))
}

func TestTimeString_DiffMinutes(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("10:45")

	assert.Equal(t, 45, a.DiffMinutes(b))
	assert.Equal(t, 45, b.DiffMinutes(a))
	assert.Equal(t, 0, a.DiffMinutes(a))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("09:30"))
	assert.Equal(t, TimeString("09:30"), ts)

	// Postgres TIME колонка может вернуть значение с секундами
	require.NoError(t, ts.Scan([]byte("14:00:00")))
	assert.Equal(t, TimeString("14:00"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 10, 15, 11, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("11:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
