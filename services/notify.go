package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mkifle/portfolio-backend/config"
	"github.com/mkifle/portfolio-backend/models"
)

const defaultNotifyTimeout = 15 * time.Second

// Notifier is one outbound channel told about new contact messages.
type Notifier interface {
	Name() string
	NotifyContact(ctx context.Context, c models.Contact) error
}

// ContactNotifier fans a new contact out to every configured channel.
// A failing channel never stops the others.
type ContactNotifier struct {
	notifiers []Notifier
	timeout   time.Duration
}

func NewContactNotifier(timeout time.Duration, notifiers ...Notifier) *ContactNotifier {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	return &ContactNotifier{notifiers: notifiers, timeout: timeout}
}

// NewContactNotifierFromSettings enables the email and SMS channels whose
// credentials are present.
func NewContactNotifierFromSettings(s config.NotifySettings) *ContactNotifier {
	var notifiers []Notifier
	if s.EmailEnabled() {
		notifiers = append(notifiers, NewEmailNotifier(s))
	}
	if s.SMSEnabled() {
		notifiers = append(notifiers, NewSMSNotifier(s))
	}
	return NewContactNotifier(defaultNotifyTimeout, notifiers...)
}

// Channels lists the enabled channel names.
func (n *ContactNotifier) Channels() []string {
	names := make([]string, 0, len(n.notifiers))
	for _, notifier := range n.notifiers {
		names = append(names, notifier.Name())
	}
	return names
}

// Notify runs every channel concurrently and returns all failures joined.
func (n *ContactNotifier) Notify(ctx context.Context, c models.Contact) error {
	if n == nil || len(n.notifiers) == 0 {
		return nil
	}

	failures := make([]error, len(n.notifiers))
	var g errgroup.Group
	for i, notifier := range n.notifiers {
		i, notifier := i, notifier
		g.Go(func() error {
			if err := notifier.NotifyContact(ctx, c); err != nil {
				failures[i] = fmt.Errorf("%s: %w", notifier.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(failures...)
}

// Dispatch notifies in the background with its own deadline. Failures are
// logged, never returned to the visitor.
func (n *ContactNotifier) Dispatch(c models.Contact) <-chan error {
	done := make(chan error, 1)
	if n == nil || len(n.notifiers) == 0 {
		done <- nil
		close(done)
		return done
	}

	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		err := n.Notify(ctx, c)
		if err != nil {
			log.Error().Err(err).Str("contactId", c.ID.String()).Msg("Failed to send contact notification")
		} else {
			log.Info().Str("contactId", c.ID.String()).Strs("channels", n.Channels()).Msg("Contact notification sent")
		}
		done <- err
	}()
	return done
}
