package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

var ErrMissingSetting = fmt.Errorf("missing required setting")
var ErrInvalidSetting = fmt.Errorf("invalid setting")

const (
	ProviderGoogle = "google"
	ProviderICS    = "ics"

	envPrefix = "PUMP_"
)

// envKeys are the variable names the deployment has always used.
var envKeys = map[string]string{
	"GOOGLE_SUBJECT":          "google.calendarid",
	"FHEM_IP":                 "fhem.host",
	"FHEM_VITOCONNECT_OBJECT": "fhem.object",
	"EARLY_DUTY_LABEL":        "duty.early",
	"LATE_DUTY_LABEL":         "duty.late",
	"NIGHT_DUTY_LABEL":        "duty.night",
	"HOTWATER":                "fhem.hotwater",
}

type Application struct {
	Calendar  Calendar  `koanf:"calendar"`
	Google    Google    `koanf:"google"`
	ICS       ICS       `koanf:"ics"`
	Fhem      Fhem      `koanf:"fhem"`
	Duty      Duty      `koanf:"duty"`
	Overrides Overrides `koanf:"overrides"`
	Schedule  Schedule  `koanf:"schedule"`
}

type Calendar struct {
	Provider string `koanf:"provider"`
}

type Google struct {
	CalendarId      string `koanf:"calendarid"`
	CredentialsFile string `koanf:"credentialsfile"`
	Subject         string `koanf:"subject"`
}

type ICS struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Fhem struct {
	Protocol          string        `koanf:"protocol"`
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	Object            string        `koanf:"object"`
	PumpParameter     string        `koanf:"pumpparameter"`
	HotWaterParameter string        `koanf:"hotwaterparameter"`
	// HotWater has no default: it must be set explicitly.
	HotWater bool `koanf:"hotwater,omitempty"`
}

type Duty struct {
	Early string `koanf:"early"`
	Late  string `koanf:"late"`
	Night string `koanf:"night"`
}

type Overrides struct {
	Dir string `koanf:"dir"`
}

type Schedule struct {
	// Cron, when set, keeps the process running and recomputes the schedule on this cron expression.
	Cron string `koanf:"cron"`
}

func defaults() Application {
	return Application{
		Calendar: Calendar{
			Provider: ProviderGoogle,
		},
		Google: Google{
			CredentialsFile: "service_account.json",
		},
		ICS: ICS{
			Timeout: 30 * time.Second,
		},
		Fhem: Fhem{
			Protocol:          "http",
			Port:              8083,
			Timeout:           30 * time.Second,
			PumpParameter:     "WW-Zirkulationspumpe_Zeitplan",
			HotWaterParameter: "WW-Zeitplan",
		},
		Overrides: Overrides{
			Dir: "/overrides",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		TransformFunc: transformEnv,
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := validate(k, app); err != nil {
		log.Error(err)
		return Application{}, err
	}
	return app, nil
}

// transformEnv maps the fixed deployment variables and PUMP_SECTION_KEY variables to config keys.
// Every other variable is dropped.
func transformEnv(k, v string) (string, any) {
	if key, ok := envKeys[k]; ok {
		if key == "fhem.hotwater" {
			return key, v == "1" || strings.EqualFold(v, "true")
		}
		return key, v
	}
	if strings.HasPrefix(k, envPrefix) {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", "."), v
	}
	return "", nil
}

func validate(k *koanf.Koanf, app Application) error {
	var missing []string
	switch app.Calendar.Provider {
	case ProviderGoogle:
		if app.Google.CalendarId == "" {
			missing = append(missing, "google.calendarid (GOOGLE_SUBJECT)")
		}
	case ProviderICS:
		if app.ICS.URL == "" {
			missing = append(missing, "ics.url (PUMP_ICS_URL)")
		}
	default:
		return fmt.Errorf("%w: calendar.provider %q, expected %q or %q", ErrInvalidSetting,
			app.Calendar.Provider, ProviderGoogle, ProviderICS)
	}
	if app.Fhem.Host == "" {
		missing = append(missing, "fhem.host (FHEM_IP)")
	}
	if app.Fhem.Object == "" {
		missing = append(missing, "fhem.object (FHEM_VITOCONNECT_OBJECT)")
	}
	if app.Duty.Early == "" {
		missing = append(missing, "duty.early (EARLY_DUTY_LABEL)")
	}
	if app.Duty.Late == "" {
		missing = append(missing, "duty.late (LATE_DUTY_LABEL)")
	}
	if app.Duty.Night == "" {
		missing = append(missing, "duty.night (NIGHT_DUTY_LABEL)")
	}
	if !k.Exists("fhem.hotwater") {
		missing = append(missing, "fhem.hotwater (HOTWATER)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSetting, strings.Join(missing, ", "))
	}
	return nil
}
