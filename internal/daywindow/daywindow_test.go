package daywindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		zone      string
		wantStart time.Time
		wantSpan  time.Duration
	}{
		{
			name:      "seoul civil date",
			input:     "2024-03-10",
			zone:      "Asia/Seoul",
			wantStart: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
			wantSpan:  24 * time.Hour,
		},
		{
			name:      "instant just after local midnight lands on the local day",
			input:     "2024-03-09T15:30:00Z",
			zone:      "Asia/Seoul",
			wantStart: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
			wantSpan:  24 * time.Hour,
		},
		{
			name:      "instant with offset",
			input:     "2024-03-10T23:59:59.999+09:00",
			zone:      "Asia/Seoul",
			wantStart: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
			wantSpan:  24 * time.Hour,
		},
		{
			name:      "wall clock without offset",
			input:     "2024-03-10T08:00:00",
			zone:      "Asia/Seoul",
			wantStart: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
			wantSpan:  24 * time.Hour,
		},
		{
			name:      "spring forward day is 23h",
			input:     "2024-03-10",
			zone:      "America/New_York",
			wantStart: time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC),
			wantSpan:  23 * time.Hour,
		},
		{
			name:      "fall back day is 25h",
			input:     "2024-11-03",
			zone:      "America/New_York",
			wantStart: time.Date(2024, 11, 3, 4, 0, 0, 0, time.UTC),
			wantSpan:  25 * time.Hour,
		},
		{
			name:      "month end rolls over",
			input:     "2024-02-29",
			zone:      "UTC",
			wantStart: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			wantSpan:  24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, err := Resolve(tt.input, tt.zone)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(w.Start), "start = %s, want %s", w.Start, tt.wantStart)
			assert.Equal(t, tt.wantSpan, w.Span())
			assert.Equal(t, time.UTC, w.Start.Location())
			assert.Equal(t, time.UTC, w.End.Location())
		})
	}
}

func TestResolve_SeoulWindowIsExactlyOneDay(t *testing.T) {
	t.Parallel()

	w, err := Resolve("2024-03-10", "Asia/Seoul")
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, w.End.Add(Resolution).Sub(w.Start))
	assert.Equal(t, 24*time.Hour, w.Span())
	assert.Equal(t, 24*time.Hour-Resolution, w.End.Sub(w.Start))
	assert.Equal(t, time.Date(2024, 3, 10, 14, 59, 59, 999999000, time.UTC), w.End)
}

func TestResolve_DSTWindowIsNotOneDay(t *testing.T) {
	t.Parallel()

	w, err := Resolve("2024-03-31", "Europe/Berlin")
	require.NoError(t, err)
	assert.NotEqual(t, 24*time.Hour, w.Span())
}

func TestResolve_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "yesterday", "2024-13-01", "2024-02-30", "10/03/2024"} {
		_, err := Resolve(input, "Asia/Seoul")
		assert.ErrorIs(t, err, ErrInvalidDate, "input=%q", input)
	}
}

func TestResolve_UnknownZone(t *testing.T) {
	t.Parallel()

	_, err := Resolve("2024-03-10", "Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownZone)
}

func TestWindow_ContainsBoundaries(t *testing.T) {
	t.Parallel()

	w, err := Resolve("2024-03-10", "Asia/Seoul")
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.End.Add(Resolution)))
}

func TestForDay_UsesLocation(t *testing.T) {
	t.Parallel()

	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// 2024-03-09 23:30 UTC is already the 10th in Seoul.
	w := ForDay(time.Date(2024, 3, 9, 23, 30, 0, 0, time.UTC).In(seoul))
	assert.Equal(t, time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC), w.Start)
}
