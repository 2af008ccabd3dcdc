package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/config"
	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/insight"
	"github.com/pantau-dev/pantau/internal/model"
)

var testNow = time.Date(2025, 3, 5, 7, 0, 0, 0, calendar.Zone)

func testDigest() Digest {
	return Digest{
		Owner: "Sari",
		Date:  testNow,
		Insights: []model.Insight{
			{ID: "budget:burn-rate:2025-03", Type: model.TypeBudget, Severity: model.SeverityHigh, Message: "Budget bulan ini terpakai <cepat> & boros"},
			{ID: "subs:due:netflix", Type: model.TypeSubs, Severity: model.SeverityMed, Message: "Netflix jatuh tempo besok"},
		},
	}
}

type fakeSender struct {
	name string
	err  error
	got  []*RenderedMessage
}

func (f *fakeSender) Name() string { return f.name }

func (f *fakeSender) Send(ctx context.Context, msg *RenderedMessage) error {
	f.got = append(f.got, msg)
	return f.err
}

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.err
}

func TestNewDigest(t *testing.T) {
	res := insight.Result{
		Now:      testNow.UTC(),
		Insights: testDigest().Insights,
		Failed:   []feed.Name{feed.Budgets},
		Err:      errors.New("feed budgets: down"),
	}
	d := NewDigest("Sari", res)
	assert.True(t, d.Partial)
	assert.Equal(t, []string{"budgets"}, d.Failed)
	assert.Equal(t, calendar.Zone, d.Date.Location())
	assert.Equal(t, "Pantau 5 Mar 2025: 2 insight", d.Subject())
}

func TestRenderText(t *testing.T) {
	text := RenderText(testDigest())
	lines := strings.Split(text, "\n")
	assert.Equal(t, "Pantau 5 Mar 2025: 2 insight", lines[0])
	assert.Contains(t, text, "1. 💸 Budget bulan ini")
	assert.Contains(t, text, "2. 🔁 Netflix jatuh tempo besok")
	assert.NotContains(t, text, "Data belum lengkap")
}

func TestRenderText_EmptyAndPartial(t *testing.T) {
	d := Digest{Date: testNow, Partial: true, Failed: []string{"budgets", "active_goals"}}
	text := RenderText(d)
	assert.Contains(t, text, "semua aman")
	assert.Contains(t, text, "Tidak ada yang perlu diperhatikan")
	assert.Contains(t, text, "gagal: budgets, active_goals")
}

func TestRenderer_HTMLEscapes(t *testing.T) {
	msg, err := NewRenderer().Render(testDigest())
	require.NoError(t, err)

	assert.Equal(t, "Pantau 5 Mar 2025: 2 insight", msg.Subject)
	assert.Contains(t, msg.HTML, "sev-high")
	assert.Contains(t, msg.HTML, "&lt;cepat&gt; &amp; boros")
	assert.NotContains(t, msg.HTML, "<cepat>")
	assert.Equal(t, RenderText(testDigest()), msg.Text)
}

func TestRenderer_HTMLCalm(t *testing.T) {
	msg, err := NewRenderer().Render(Digest{Date: testNow})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, `class="calm"`)
	assert.NotContains(t, msg.HTML, `class="partial"`)
}

func TestNotifier_SkipsEmptyDigest(t *testing.T) {
	s := &fakeSender{name: "fake"}
	n := &Notifier{Renderer: NewRenderer(), Senders: []Sender{s}}

	require.NoError(t, n.Notify(context.Background(), Digest{Date: testNow}))
	assert.Empty(t, s.got)

	n.SendEmpty = true
	require.NoError(t, n.Notify(context.Background(), Digest{Date: testNow}))
	assert.Len(t, s.got, 1)
}

func TestNotifier_ContinuesPastFailure(t *testing.T) {
	bad := &fakeSender{name: "bad", err: errors.New("smtp down")}
	good := &fakeSender{name: "good"}
	n := &Notifier{Renderer: NewRenderer(), Senders: []Sender{bad, good}}

	err := n.Notify(context.Background(), testDigest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: smtp down")
	assert.Len(t, bad.got, 1)
	assert.Len(t, good.got, 1)
}

func TestEmailSender_DisabledIsNoop(t *testing.T) {
	s := NewEmailSender(config.EmailConfig{Enabled: false, SMTPServer: "unreachable.invalid"})
	assert.NoError(t, s.Send(context.Background(), &RenderedMessage{Subject: "x", Text: "y"}))
}

func TestEmailSender_Message(t *testing.T) {
	s := NewEmailSender(config.EmailConfig{From: "pantau@example.com", To: "sari@example.com"})
	m := s.Message(&RenderedMessage{Subject: "Hi", Text: "plain", HTML: "<p>rich</p>"})

	assert.Equal(t, []string{"pantau@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"sari@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Hi"}, m.GetHeader("Subject"))

	var sb strings.Builder
	_, err := m.WriteTo(&sb)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "text/plain")
	assert.Contains(t, sb.String(), "text/html")
}

func TestTelegramSender_Send(t *testing.T) {
	bot := &fakeBot{}
	s := NewTelegramSender(bot, 42)

	msg, err := NewRenderer().Render(testDigest())
	require.NoError(t, err)
	require.NoError(t, s.Send(context.Background(), msg))
	require.Len(t, bot.sent, 1)

	sent, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), sent.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, sent.ParseMode)
	assert.True(t, strings.HasPrefix(sent.Text, "<b>Pantau 5 Mar 2025: 2 insight</b>\n\n1. "))
	assert.Contains(t, sent.Text, "&lt;cepat&gt;")
	assert.NotContains(t, sent.Text, "====")
}

func TestTelegramSender_Error(t *testing.T) {
	s := NewTelegramSender(&fakeBot{err: errors.New("forbidden")}, 42)
	err := s.Send(context.Background(), &RenderedMessage{Subject: "x", Text: "y"})
	assert.ErrorContains(t, err, "forbidden")
}

func TestDialTelegram_Disabled(t *testing.T) {
	s, err := DialTelegram(config.TelegramConfig{})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = DialTelegram(config.TelegramConfig{Enabled: true, ChatID: 1})
	assert.ErrorContains(t, err, "token is empty")
}
