package google

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Settings select the calendar to read and the service account used to read it.
type Settings struct {
	CredentialsFile string
	CalendarId      string
	// Subject is the user the service account impersonates; empty reads as the service account itself.
	Subject string
}

// NewCalendar builds a read-only Calendar authenticated with the service account credentials file.
func NewCalendar(ctx context.Context, settings Settings) (*Calendar, error) {
	credentials, err := os.ReadFile(settings.CredentialsFile)
	if err != nil {
		err := fmt.Errorf("unable to read Google service account file %s: %v", settings.CredentialsFile, err)
		log.Error(err)
		return nil, err
	}

	service, err := prepareGoogleService(ctx, credentials, settings.Subject)
	if err != nil {
		return nil, err
	}
	return newGoogleCalendar(service, settings.CalendarId), nil
}

func prepareGoogleService(ctx context.Context, credentials []byte, subject string) (*calendar.Service, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentials, calendar.CalendarReadonlyScope)
	if err != nil {
		err := fmt.Errorf("unable to parse Google service account credentials: %v", err)
		log.Error(err)
		return nil, err
	}
	jwtConfig.Subject = subject

	service, err := calendar.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		err := fmt.Errorf("unable to retrieve Calendar client: %v", err)
		log.Error(err)
		return nil, err
	}

	return service, nil
}
