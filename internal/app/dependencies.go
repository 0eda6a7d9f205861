package app

import (
	"context"

	"github.com/alexalex89/viessmann-circular-pump-calendar/internal/config"
	"github.com/alexalex89/viessmann-circular-pump-calendar/internal/utils"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/calendar"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/fhem"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/google"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/ics"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/override"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/pumpsync"
	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
)

// Dependencies holds all services of the application.
type Dependencies struct {
	Clock utils.Clock

	Fetcher calendar.Fetcher

	Overrides  schedule.OverrideSource
	Calculator *schedule.Calculator

	FhemClient fhem.Client
	Publisher  *fhem.Publisher

	SyncService *pumpsync.Service
}

// BuildDependencies initializes and wires all application services.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	fetcher, err := buildFetcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	deps.Fetcher = fetcher

	deps.Overrides = override.NewFileSource(cfg.Overrides.Dir)
	deps.Calculator = schedule.NewCalculator(deps.Overrides, schedule.DutyLabels{
		Early: cfg.Duty.Early,
		Late:  cfg.Duty.Late,
		Night: cfg.Duty.Night,
	})

	deps.FhemClient = fhem.NewWebClient(cfg.Fhem.Protocol, cfg.Fhem.Host, cfg.Fhem.Port, cfg.Fhem.Timeout)
	deps.Publisher = fhem.NewPublisher(deps.FhemClient, fhem.Target{
		Object:            cfg.Fhem.Object,
		PumpParameter:     cfg.Fhem.PumpParameter,
		HotWaterParameter: cfg.Fhem.HotWaterParameter,
		HotWaterEnabled:   cfg.Fhem.HotWater,
	})

	deps.SyncService = pumpsync.NewService(deps.Fetcher, deps.Calculator, deps.Publisher, deps.Clock)

	return deps, nil
}

func buildFetcher(ctx context.Context, cfg config.Application) (calendar.Fetcher, error) {
	if cfg.Calendar.Provider == config.ProviderICS {
		return ics.NewCalendar(cfg.ICS.URL, cfg.ICS.Timeout), nil
	}
	return google.NewCalendar(ctx, google.Settings{
		CredentialsFile: cfg.Google.CredentialsFile,
		CalendarId:      cfg.Google.CalendarId,
		Subject:         cfg.Google.Subject,
	})
}
