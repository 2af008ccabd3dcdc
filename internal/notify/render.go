package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/pantau-dev/pantau/internal/model"
)

// Renderer turns a Digest into HTML with a plain text fallback.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a renderer with the default digest template.
func NewRenderer() *Renderer {
	t := template.Must(template.New("digest").Funcs(template.FuncMap{
		"icon": icon,
	}).Parse(digestHTMLTemplate))
	return &Renderer{tmpl: t}
}

// Render produces the HTML and text bodies.
func (r *Renderer) Render(d Digest) (*RenderedMessage, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("rendering HTML digest: %w", err)
	}
	return &RenderedMessage{
		Subject: d.Subject(),
		Text:    RenderText(d),
		HTML:    buf.String(),
	}, nil
}

// RenderText is the plain text digest, also used by the CLI.
func RenderText(d Digest) string {
	var sb strings.Builder
	sb.WriteString(d.Subject() + "\n")
	sb.WriteString(strings.Repeat("=", 40) + "\n")

	if d.Empty() {
		sb.WriteString("Tidak ada yang perlu diperhatikan hari ini.\n")
	}
	for i, in := range d.Insights {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, icon(in.Type), in.Message)
	}
	if d.Partial {
		fmt.Fprintf(&sb, "\nData belum lengkap (gagal: %s).\n", strings.Join(d.Failed, ", "))
	}
	return sb.String()
}

func icon(t model.Type) string {
	switch t {
	case model.TypeWarn:
		return "⚠️"
	case model.TypeGood:
		return "✅"
	case model.TypeBudget:
		return "💸"
	case model.TypeSubs:
		return "🔁"
	case model.TypeGoal:
		return "🎯"
	case model.TypeTrend:
		return "📈"
	}
	return "•"
}
