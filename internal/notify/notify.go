// Package notify renders an insight digest and delivers it by email or Telegram.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/insight"
	"github.com/pantau-dev/pantau/internal/model"
)

// Digest is the data every renderer sees.
type Digest struct {
	Owner    string
	Date     time.Time
	Insights []model.Insight
	Partial  bool
	Failed   []string
}

// NewDigest builds a Digest from a finished run.
func NewDigest(owner string, res insight.Result) Digest {
	d := Digest{
		Owner:    owner,
		Date:     calendar.In(res.Now),
		Insights: res.Insights,
		Partial:  res.Partial(),
	}
	for _, name := range res.Failed {
		d.Failed = append(d.Failed, string(name))
	}
	return d
}

// Empty reports whether there is nothing worth sending.
func (d Digest) Empty() bool {
	return len(d.Insights) == 0
}

// Subject is the email subject and Telegram heading.
func (d Digest) Subject() string {
	day := d.Date.Format("2 Jan 2006")
	if d.Empty() {
		return fmt.Sprintf("Pantau %s: semua aman", day)
	}
	return fmt.Sprintf("Pantau %s: %d insight", day, len(d.Insights))
}

// RenderedMessage is a digest ready for delivery.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered digest.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *RenderedMessage) error
}

// Notifier fans a digest out to every configured sender.
type Notifier struct {
	Renderer *Renderer
	Senders  []Sender
	Logger   *slog.Logger
	// SendEmpty delivers a digest even when the run produced no insights.
	SendEmpty bool
}

// Notify renders d once and hands it to each sender. A failing sender does
// not stop the others; their errors are joined.
func (n *Notifier) Notify(ctx context.Context, d Digest) error {
	log := n.Logger
	if log == nil {
		log = slog.Default()
	}
	if d.Empty() && !n.SendEmpty {
		log.Debug("digest empty, nothing sent")
		return nil
	}
	msg, err := n.Renderer.Render(d)
	if err != nil {
		return err
	}

	var errs []error
	for _, s := range n.Senders {
		if err := s.Send(ctx, msg); err != nil {
			log.Error("sending digest", "sender", s.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		log.Info("digest sent", "sender", s.Name(), "subject", msg.Subject)
	}
	return errors.Join(errs...)
}
