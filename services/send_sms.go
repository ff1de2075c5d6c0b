package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/models"
)

// smsBodyLimit keeps a notification within a couple of SMS segments.
const smsBodyLimit = 300

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts a short summary of new contact messages through Twilio.
type SMSNotifier struct {
	api        messageCreator
	from       string
	recipients []string
}

func NewSMSNotifier(s config.NotifySettings) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: s.TwilioAccountSID,
		Password: s.TwilioAuthToken,
	})
	return &SMSNotifier{
		api:        client.Api,
		from:       s.TwilioFromNumber,
		recipients: s.SMSRecipients,
	}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) NotifyContact(ctx context.Context, c models.Contact) error {
	body := fmt.Sprintf("New portfolio message from %s <%s>: %s", c.Name, c.Email, c.Subject)
	if runes := []rune(body); len(runes) > smsBodyLimit {
		body = string(runes[:smsBodyLimit-3]) + "..."
	}

	var errs []error
	for _, to := range n.recipients {
		if err := ctx.Err(); err != nil {
			return err
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)

		resp, err := n.api.CreateMessage(params)
		if err != nil {
			errs = append(errs, fmt.Errorf("sms to %s: %w", to, err))
			continue
		}
		if resp != nil && resp.Sid != nil {
			log.Info().Str("sid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
		}
	}
	return errors.Join(errs...)
}
