package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, in, out string) Interval {
	t.Helper()
	i, err := ParseInterval(in, out)
	require.NoError(t, err)
	return i
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		in, out string
		nights  int
		wantErr bool
	}{
		{name: "dates", in: "2024-06-01", out: "2024-06-03", nights: 2},
		{name: "rfc3339 truncated to day", in: "2024-06-01T15:00:00Z", out: "2024-06-03T11:00:00Z", nights: 2},
		{name: "offset keeps local date", in: "2024-06-01T01:00:00+05:30", out: "2024-06-03T12:00:00+05:30", nights: 2},
		{name: "same day", in: "2024-06-01", out: "2024-06-01", wantErr: true},
		{name: "inverted", in: "2024-06-03", out: "2024-06-01", wantErr: true},
		{name: "garbage check-in", in: "tomorrow", out: "2024-06-01", wantErr: true},
		{name: "garbage check-out", in: "2024-06-01", out: "06/03/2024", wantErr: true},
		{name: "empty", in: "", out: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.in, tt.out)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.nights, got.Nights())
			assert.Equal(t, time.UTC, got.CheckIn.Location())
		})
	}
}

func TestParseInterval_KeepsLocalCalendarDate(t *testing.T) {
	got, err := ParseInterval("2024-06-01T01:00:00+05:30", "2024-06-02T01:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, "[2024-06-01, 2024-06-02)", got.String())
	assert.Equal(t, 1, got.Nights())

	west, err := ParseInterval("2024-06-01T23:30:00-07:00", "2024-06-02T10:00:00-07:00")
	require.NoError(t, err)
	assert.Equal(t, "[2024-06-01, 2024-06-02)", west.String())

	// A stay given in a non-UTC offset touching an existing one does not conflict.
	booked := mustInterval(t, "2024-05-30", "2024-06-01")
	assert.False(t, booked.Overlaps(got))
	assert.False(t, got.Overlaps(booked))
}

func TestNewInterval_ZeroTimes(t *testing.T) {
	_, err := NewInterval(time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestInterval_Overlaps(t *testing.T) {
	booked := mustInterval(t, "2024-07-01", "2024-07-05")

	tests := []struct {
		name    string
		in, out string
		want    bool
	}{
		{name: "touching after", in: "2024-07-05", out: "2024-07-07", want: false},
		{name: "touching before", in: "2024-06-28", out: "2024-07-01", want: false},
		{name: "tail overlap", in: "2024-07-04", out: "2024-07-06", want: true},
		{name: "head overlap", in: "2024-06-29", out: "2024-07-02", want: true},
		{name: "contained", in: "2024-07-02", out: "2024-07-03", want: true},
		{name: "containing", in: "2024-06-20", out: "2024-07-20", want: true},
		{name: "identical", in: "2024-07-01", out: "2024-07-05", want: true},
		{name: "disjoint", in: "2024-08-01", out: "2024-08-05", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := mustInterval(t, tt.in, tt.out)
			assert.Equal(t, tt.want, booked.Overlaps(other))
			assert.Equal(t, booked.Overlaps(other), other.Overlaps(booked), "overlap must be symmetric")
		})
	}
}

func TestInterval_String(t *testing.T) {
	assert.Equal(t, "[2024-06-01, 2024-06-03)", mustInterval(t, "2024-06-01", "2024-06-03").String())
}
