package api

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"highlight": highlight,
		"currency":  formatCurrency,
		"number":    formatNumber,
		"abs":       math.Abs,
	}).ParseFS(templateFS, "templates/*.html"),
)

// alertData feeds the "alert" template.
type alertData struct {
	Variant     string
	Message     string
	Dismissible bool
}

// render executes a named template into a buffer first so a failing
// template never leaves a half-written fragment on the wire. Only template
// errors are returned; nothing has been written when err != nil.
func render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
	return nil
}

// highlight escapes text and wraps every case-insensitive occurrence of term
// in a highlight span.
func highlight(text, term string) template.HTML {
	if term == "" {
		return template.HTML(template.HTMLEscapeString(text))
	}
	lower := strings.ToLower(text)
	term = strings.ToLower(term)
	// Lower-casing changed byte offsets; fall back to plain text.
	if len(lower) != len(text) {
		return template.HTML(template.HTMLEscapeString(text))
	}

	var b strings.Builder
	for {
		i := strings.Index(lower, term)
		if i < 0 {
			b.WriteString(template.HTMLEscapeString(text))
			break
		}
		b.WriteString(template.HTMLEscapeString(text[:i]))
		b.WriteString(`<span class="highlight">`)
		b.WriteString(template.HTMLEscapeString(text[i : i+len(term)]))
		b.WriteString(`</span>`)
		text, lower = text[i+len(term):], lower[i+len(term):]
	}
	return template.HTML(b.String())
}

// formatCurrency renders v as US dollars with thousands separators.
func formatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
