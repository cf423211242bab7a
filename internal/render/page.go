package render

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
)

//go:embed templates/*.html templates/*.css
var assets embed.FS

var page = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"uploadText":   UploadText,
	"uploadIcon":   UploadIcon,
	"typeIcon":     TypeIcon,
	"fileDetails":  FileDetails,
	"preview":      Preview,
	"submitButton": SubmitButton,
	"resultCard":   ResultCard,
	"notices":      Notices,
	"stylesheet":   stylesheet,
}).ParseFS(assets, "templates/page.html"))

// PageData is the input of the full page
type PageData struct {
	Title     string
	View      widget.View
	NoticeTTL time.Duration
}

// KindOption is one button of the kind switcher
type KindOption struct {
	Kind   media.Kind
	Title  string
	Active bool
}

// Kinds returns the switcher buttons with the current kind marked active
func (d PageData) Kinds() []KindOption {
	out := make([]KindOption, 0, 3)
	for _, k := range media.Kinds() {
		out = append(out, KindOption{Kind: k, Title: k.Title(), Active: k == d.View.Kind})
	}
	return out
}

// NoticeTTLMillis is the client side lifetime of a notice
func (d PageData) NoticeTTLMillis() int64 {
	return d.NoticeTTL.Milliseconds()
}

// Page writes the full document for the widget
func Page(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "Smart Deepfake Detection"
	}
	return page.Execute(w, data)
}

func stylesheet() template.CSS {
	b, err := assets.ReadFile("templates/style.css")
	if err != nil {
		return ""
	}
	return template.CSS(b)
}
