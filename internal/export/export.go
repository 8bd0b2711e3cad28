// Package export renders a month as a standalone HTML timetable with a
// companion stylesheet.
package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"

	"github.com/smokyabdulrahman/adhan/internal/cache"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

const (
	HTMLFile = "current_month.html"
	CSSFile  = "current_month.css"
	title    = "Adhan - Prayer Time Collector"
)

var (
	//go:embed templates/timetable.html.tmpl
	timetableSource string

	// DefaultCSS is the finished stylesheet.
	//go:embed templates/default.css
	DefaultCSS []byte

	// TemplateCSS is an empty skeleton for users to style themselves.
	//go:embed templates/template.css
	TemplateCSS []byte
)

var timetable = template.Must(template.New("timetable").Parse(timetableSource))

type page struct {
	Title      string
	Stylesheet string
	Header     string
	Columns    []string
	Rows       []row
}

type row struct {
	Date  string
	Times []string
}

// FormatTime renders a time as a space padded hour and two digit minute,
// e.g. " 5:07" or "13:20".
func FormatTime(t civil.Time) string {
	return fmt.Sprintf("%2d:%02d", t.Hour, t.Minute)
}

// FormatDate renders a day as "Monday, 05".
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("Monday, 02")
}

// FormatHeader renders a month as "Jun 2022".
func FormatHeader(d civil.Date) string {
	return d.In(time.UTC).Format("Jan 2006")
}

// Render writes the HTML timetable for m. header selects the month shown in
// the table's corner cell.
func Render(w io.Writer, m prayer.Month, header civil.Date) error {
	p := page{
		Title:      title,
		Stylesheet: CSSFile,
		Header:     FormatHeader(header),
		Rows:       make([]row, 0, m.Len()),
	}
	for _, k := range prayer.Kinds() {
		p.Columns = append(p.Columns, k.String())
	}

	for day := range m.All() {
		r := row{Date: FormatDate(day.Date)}
		for _, pr := range day.Prayers() {
			r.Times = append(r.Times, FormatTime(pr.Time))
		}
		p.Rows = append(p.Rows, r)
	}

	if err := timetable.Execute(w, p); err != nil {
		return fmt.Errorf("render timetable: %w", err)
	}
	return nil
}

// Generate returns the HTML document and the stylesheet. defaultCSS selects
// the finished stylesheet over the editable skeleton.
func Generate(m prayer.Month, header civil.Date, defaultCSS bool) (html, css []byte, err error) {
	var buf bytes.Buffer
	if err := Render(&buf, m, header); err != nil {
		return nil, nil, err
	}
	css = TemplateCSS
	if defaultCSS {
		css = DefaultCSS
	}
	return buf.Bytes(), css, nil
}

// Write generates the timetable and stores both files under the documents
// root. It returns the paths written.
func Write(store *cache.Store, m prayer.Month, header civil.Date, defaultCSS bool) (htmlPath, cssPath string, err error) {
	html, css, err := Generate(m, header, defaultCSS)
	if err != nil {
		return "", "", err
	}
	if err := store.WriteDocument(HTMLFile, html); err != nil {
		return "", "", err
	}
	if err := store.WriteDocument(CSSFile, css); err != nil {
		return "", "", err
	}
	return filepath.Join(store.DocumentsDir(), HTMLFile), filepath.Join(store.DocumentsDir(), CSSFile), nil
}
