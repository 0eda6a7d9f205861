package fhem

import (
	"context"
	"fmt"

	"github.com/alexalex89/viessmann-circular-pump-calendar/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

var ErrPublish = fmt.Errorf("unable to publish schedule to FHEM")

const (
	DefaultPumpParameter     = "WW-Zirkulationspumpe_Zeitplan"
	DefaultHotWaterParameter = "WW-Zeitplan"
)

// Target names the FHEM device and its readings that receive the schedules.
type Target struct {
	Object            string
	PumpParameter     string
	HotWaterParameter string
	HotWaterEnabled   bool
}

type Publisher struct {
	client Client
	target Target
}

func NewPublisher(client Client, target Target) *Publisher {
	return &Publisher{
		client: client,
		target: target,
	}
}

// Publish sets the circulation pump schedule and, when enabled, the hot water schedule.
func (p *Publisher) Publish(ctx context.Context, weekly schedule.WeeklySchedule) error {
	log.Info("Sending new schedule to FHEM ...")
	if err := p.set(ctx, p.target.PumpParameter, weekly.CirculationPump); err != nil {
		return err
	}

	if !p.target.HotWaterEnabled {
		log.Debug("hot water schedule disabled, not sending it")
		return nil
	}
	return p.set(ctx, p.target.HotWaterParameter, weekly.HotWater)
}

func (p *Publisher) set(ctx context.Context, parameter string, days schedule.DaySchedule) error {
	payload, err := days.Encode()
	if err != nil {
		err := fmt.Errorf("%w: unable to encode %s: %v", ErrPublish, parameter, err)
		log.Error(err)
		return err
	}

	command := fmt.Sprintf("set %s %s %s", p.target.Object, parameter, payload)
	log.Debugf("FHEM command: %s", command)
	if err := p.client.SendCommand(ctx, command); err != nil {
		err := fmt.Errorf("%w: %s: %v", ErrPublish, parameter, err)
		log.Error(err)
		return err
	}
	return nil
}
