package override

import (
	"context"
	"testing"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileSourceTest(t *testing.T) (*FileSource, afero.Fs) {
	fs := afero.NewMemMapFs()
	return NewFileSourceFs(fs), fs
}

func TestFileSource_Lookup(t *testing.T) {
	t.Run("should report missing overrides as not found", func(t *testing.T) {
		source, _ := setupFileSourceTest(t)

		entries, found, err := source.Lookup(context.Background(), "mon")

		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, entries)
	})

	t.Run("should read a category override", func(t *testing.T) {
		// given
		source, fs := setupFileSourceTest(t)
		content := `[{"start":"06:10","position":0,"end":"06:40","mode":"5/10-cycles"}]`
		require.NoError(t, afero.WriteFile(fs, "weekday_times", []byte(content), 0o644))

		// when
		entries, found, err := source.Lookup(context.Background(), string(schedule.Weekdays))

		// then
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []schedule.TimeEntry{
			{Start: "06:10", Position: 0, End: "06:40", Mode: schedule.ModeCycles5x10},
		}, entries)
	})

	t.Run("should treat an empty array as an override", func(t *testing.T) {
		source, fs := setupFileSourceTest(t)
		require.NoError(t, afero.WriteFile(fs, "sat", []byte(`[]`), 0o644))

		entries, found, err := source.Lookup(context.Background(), "sat")

		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, entries)
	})

	t.Run("should fail on a malformed file", func(t *testing.T) {
		source, fs := setupFileSourceTest(t)
		require.NoError(t, afero.WriteFile(fs, "tue", []byte(`not json`), 0o644))

		_, _, err := source.Lookup(context.Background(), "tue")

		assert.ErrorIs(t, err, schedule.ErrMalformedOverride)
	})

	t.Run("should reject keys that leave the override directory", func(t *testing.T) {
		source, _ := setupFileSourceTest(t)

		for _, key := range []string{"", "..", "../etc/passwd", `a\b`} {
			_, _, err := source.Lookup(context.Background(), key)
			assert.ErrorIs(t, err, ErrInvalidKey, key)
		}
	})
}

func TestFileSource_WithCalculator(t *testing.T) {
	// given
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "wed",
		[]byte(`[{"start":"09:15","position":0,"end":"10:00","mode":"5/25-cycles"}]`), 0o644))
	calculator := schedule.NewCalculator(NewFileSourceFs(fs), schedule.DutyLabels{Early: "F", Late: "S", Night: "N"})
	monday := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	// when
	result, err := calculator.Compute(context.Background(), nil, monday, monday.AddDate(0, 0, 7))

	// then
	require.NoError(t, err)
	assert.Equal(t, "09:15", result.CirculationPump[schedule.Wednesday][0].Start)
	assert.Equal(t, "08:15", result.HotWater[schedule.Wednesday][0].Start)
}
