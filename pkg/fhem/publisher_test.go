package fhem

import (
	"context"
	"testing"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekly = schedule.WeeklySchedule{
	CirculationPump: schedule.DaySchedule{
		schedule.Monday: {{Start: "05:50", Position: 0, End: "06:30", Mode: schedule.ModeCycles5x10}},
	},
	HotWater: schedule.DaySchedule{
		schedule.Monday: {{Start: "04:50", Position: 0, End: "22:00", Mode: schedule.ModeTop}},
	},
}

func setupPublisherTest(t *testing.T, hotWater bool) (*Publisher, *ClientStub) {
	client := NewClientStub()
	publisher := NewPublisher(client, Target{
		Object:            "vitoconnect",
		PumpParameter:     DefaultPumpParameter,
		HotWaterParameter: DefaultHotWaterParameter,
		HotWaterEnabled:   hotWater,
	})
	t.Cleanup(client.Reset)
	return publisher, client
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("should set both schedules", func(t *testing.T) {
		// given
		publisher, client := setupPublisherTest(t, true)

		// when
		err := publisher.Publish(context.Background(), weekly)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			`set vitoconnect WW-Zirkulationspumpe_Zeitplan {"mon":[{"start":"05:50","position":0,"end":"06:30","mode":"5/10-cycles"}]}`,
			`set vitoconnect WW-Zeitplan {"mon":[{"start":"04:50","position":0,"end":"22:00","mode":"top"}]}`,
		}, client.Commands())
	})

	t.Run("should skip hot water when disabled", func(t *testing.T) {
		publisher, client := setupPublisherTest(t, false)

		err := publisher.Publish(context.Background(), weekly)

		require.NoError(t, err)
		commands := client.Commands()
		require.Len(t, commands, 1)
		assert.Contains(t, commands[0], DefaultPumpParameter)
	})

	t.Run("should stop when the pump schedule cannot be sent", func(t *testing.T) {
		publisher, client := setupPublisherTest(t, true)
		client.SetError(0, ErrClientTestError)

		err := publisher.Publish(context.Background(), weekly)

		assert.ErrorIs(t, err, ErrPublish)
		assert.Empty(t, client.Commands())
	})

	t.Run("should fail when the hot water schedule cannot be sent", func(t *testing.T) {
		publisher, client := setupPublisherTest(t, true)
		client.SetError(1, ErrClientTestError)

		err := publisher.Publish(context.Background(), weekly)

		assert.ErrorIs(t, err, ErrPublish)
		assert.Len(t, client.Commands(), 1)
	})
}
