package bookings

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl locales/*.json
var assets embed.FS

const (
	DefaultLanguage = "es"
	dateLayout      = "02/01/2006 15:04"
)

type locale struct {
	Subject      string `json:"subject"`
	Greeting     string `json:"greeting"`
	Intro        string `json:"intro"`
	Activity     string `json:"activity"`
	Guide        string `json:"guide"`
	Date         string `json:"date"`
	Participants string `json:"participants"`
	Total        string `json:"total"`
	MeetingPoint string `json:"meetingPoint"`
	Reference    string `json:"reference"`
	Closing      string `json:"closing"`
	Signature    string `json:"signature"`
}

// RenderedEmail is a confirmation ready to hand to the email chain.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

type templateData struct {
	Lang     string
	T        locale
	Greeting string
	Booking  BookingDetails
	Date     string
	Total    string
}

// Renderer holds the parsed confirmation templates and locale dictionaries.
type Renderer struct {
	html            *htmltemplate.Template
	text            *texttemplate.Template
	locales         map[string]locale
	defaultLanguage string
}

func NewRenderer(defaultLanguage string) (*Renderer, error) {
	html, err := htmltemplate.ParseFS(assets, "templates/confirmation.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html template: %w", err)
	}
	text, err := texttemplate.ParseFS(assets, "templates/confirmation.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text template: %w", err)
	}

	locales := make(map[string]locale)
	for _, lang := range []string{"es", "en"} {
		raw, err := assets.ReadFile("locales/" + lang + ".json")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}
		var l locale
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("decode locale %s: %w", lang, err)
		}
		locales[lang] = l
	}

	if _, ok := locales[defaultLanguage]; !ok {
		defaultLanguage = DefaultLanguage
	}

	return &Renderer{
		html:            html,
		text:            text,
		locales:         locales,
		defaultLanguage: defaultLanguage,
	}, nil
}

// language picks the booking language, falling back to the default.
func (r *Renderer) language(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := r.locales[lang]; ok {
		return lang
	}
	return r.defaultLanguage
}

func (r *Renderer) RenderConfirmation(d BookingDetails) (*RenderedEmail, error) {
	lang := r.language(d.Language)
	l := r.locales[lang]

	placeholders := strings.NewReplacer(
		"{{activity}}", d.ActivityTitle,
		"{{name}}", d.CustomerName,
	)

	currency := d.Currency
	if currency == "" {
		currency = "ARS"
	}

	data := templateData{
		Lang:     lang,
		T:        l,
		Greeting: placeholders.Replace(l.Greeting),
		Booking:  d,
		Date:     d.ActivityDate.Format(dateLayout),
		Total:    fmt.Sprintf("%.2f %s", d.TotalPrice, currency),
	}

	var html bytes.Buffer
	if err := r.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	var text bytes.Buffer
	if err := r.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}

	return &RenderedEmail{
		Subject: placeholders.Replace(l.Subject),
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()),
	}, nil
}
