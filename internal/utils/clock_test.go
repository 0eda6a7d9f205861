package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDayUTC(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skip("timezone database not available")
	}
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"midnight stays", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"afternoon truncated", time.Date(2025, 3, 3, 17, 45, 12, 99, time.UTC), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"local time uses the UTC date", time.Date(2025, 3, 4, 0, 30, 0, 0, warsaw), time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(StartOfDayUTC(tt.in)))
		})
	}
}

func TestSystemClock_Now(t *testing.T) {
	assert.Equal(t, time.UTC, SystemClock{}.Now().Location())
}
