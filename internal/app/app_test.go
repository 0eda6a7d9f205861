package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexalex89/viessmann-circular-pump-calendar/internal/config"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/ics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerStub struct {
	mu      sync.Mutex
	calls   int
	err     error
	panicOn int
}

func (r *runnerStub) Run(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.calls == r.panicOn {
		panic("runner test panic")
	}
	return r.err
}

func (r *runnerStub) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

var errRunnerTest = errors.New("runner test error")

func TestApplication_Run(t *testing.T) {
	t.Run("should run once without a schedule", func(t *testing.T) {
		// given
		runner := &runnerStub{err: errRunnerTest}
		application := &Application{runner: runner}

		// when
		err := application.Run(context.Background())

		// then
		assert.ErrorIs(t, err, errRunnerTest)
		assert.Equal(t, 1, runner.Calls())
	})

	t.Run("should run immediately and keep running until cancelled", func(t *testing.T) {
		// given
		runner := &runnerStub{err: errRunnerTest}
		application := &Application{
			cfg:    config.Application{Schedule: config.Schedule{Cron: "@every 1h"}},
			runner: runner,
		}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		// when
		go func() { done <- application.Run(ctx) }()
		require.Eventually(t, func() bool { return runner.Calls() == 1 }, time.Second, 10*time.Millisecond)
		cancel()

		// then
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.Equal(t, 1, runner.Calls())
	})

	t.Run("should keep the scheduler alive when the first run panics", func(t *testing.T) {
		// given
		runner := &runnerStub{panicOn: 1}
		application := &Application{
			cfg:    config.Application{Schedule: config.Schedule{Cron: "@every 1h"}},
			runner: runner,
		}
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		// when
		go func() { done <- application.Run(ctx) }()
		require.Eventually(t, func() bool { return runner.Calls() == 1 }, time.Second, 10*time.Millisecond)
		cancel()

		// then
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	})

	t.Run("should reject an invalid cron expression", func(t *testing.T) {
		runner := &runnerStub{}
		application := &Application{
			cfg:    config.Application{Schedule: config.Schedule{Cron: "every morning"}},
			runner: runner,
		}

		err := application.Run(context.Background())

		assert.Error(t, err)
		assert.Equal(t, 0, runner.Calls())
	})
}

func TestBuildDependencies(t *testing.T) {
	t.Run("should wire the ics provider", func(t *testing.T) {
		cfg := config.Application{
			Calendar:  config.Calendar{Provider: config.ProviderICS},
			ICS:       config.ICS{URL: "https://example.com/duties.ics", Timeout: time.Second},
			Fhem:      config.Fhem{Protocol: "http", Host: "localhost", Port: 8083, Object: "vitoconnect"},
			Duty:      config.Duty{Early: "F", Late: "S", Night: "N"},
			Overrides: config.Overrides{Dir: t.TempDir()},
		}

		deps, err := BuildDependencies(context.Background(), cfg)

		require.NoError(t, err)
		assert.IsType(t, &ics.Calendar{}, deps.Fetcher)
		assert.NotNil(t, deps.SyncService)
	})

	t.Run("should fail without google credentials", func(t *testing.T) {
		cfg := config.Application{
			Calendar: config.Calendar{Provider: config.ProviderGoogle},
			Google:   config.Google{CalendarId: "duties@example.com", CredentialsFile: t.TempDir() + "/missing.json"},
		}

		_, err := BuildDependencies(context.Background(), cfg)

		assert.Error(t, err)
	})
}
