// Package render turns widget state into HTML fragments and the full page.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/verdict"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
)

const (
	defaultUploadIcon = `<svg class="upload-default-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M21 15v4a2 2 0 0 1-2 2H5a2 2 0 0 1-2-2v-4"/><polyline points="7,10 12,15 17,10"/><line x1="12" y1="15" x2="12" y2="3"/></svg>`
	shieldIcon        = `<svg class="button-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/></svg>`
	audioIcon         = `<svg class="audio-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M9 18V5l12-2v13"/><circle cx="6" cy="18" r="3"/><circle cx="18" cy="16" r="3"/></svg>`
)

var typeIcons = map[media.Kind]string{
	media.KindImage: `<svg class="type-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><rect x="3" y="3" width="18" height="18" rx="2" ry="2"/><circle cx="8.5" cy="8.5" r="1.5"/><polyline points="21,15 16,10 5,21"/></svg>`,
	media.KindVideo: `<svg class="type-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><polygon points="23,7 16,12 23,17 23,7"/><rect x="1" y="5" width="15" height="14" rx="2" ry="2"/></svg>`,
	media.KindAudio: `<svg class="type-icon" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M9 18V5l12-2v13"/><circle cx="6" cy="18" r="3"/><circle cx="18" cy="16" r="3"/></svg>`,
}

var resultIcons = map[verdict.Verdict]string{
	verdict.Authentic: `<svg class="result-icon authentic" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M22 11.08V12a10 10 0 1 1-5.93-9.14"/><polyline points="22,4 12,14.01 9,11.01"/></svg>`,
	verdict.Fake:      `<svg class="result-icon fake" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M10.29 3.86L1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0z"/><line x1="12" y1="9" x2="12" y2="13"/><line x1="12" y1="17" x2="12.01" y2="17"/></svg>`,
	verdict.Neutral:   `<svg class="result-icon neutral" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="10"/><path d="M9,9h0a3,3,0,0,1,6,0c0,2-3,3-3,3"/><path d="M12,17h0"/></svg>`,
}

// Only line breaks survive in result text
var resultPolicy = bluemonday.StrictPolicy().AllowElements("br")

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"audioIcon":  func() template.HTML { return template.HTML(audioIcon) },
	"shieldIcon": func() template.HTML { return template.HTML(shieldIcon) },
}).Parse(`
{{define "uploadIdle"}}<p class="upload-main-text">Drop your {{.}} here or click to browse</p>
<p class="upload-sub-text">Supports all common {{.}} formats</p>{{end}}

{{define "uploadSelected"}}<div class="file-info">
  <p class="file-name">{{.Name}}</p>
  <p class="file-size">{{.Size}} MB</p>
  <p class="file-types">Click "Analyze {{.Title}}" to process</p>
</div>{{end}}

{{define "details"}}<div class="details-grid">
{{range .}}  <div class="detail-item">
    <div class="detail-label">{{.Label}}</div>
    <div class="detail-value">{{.Value}}</div>
  </div>
{{end}}</div>{{end}}

{{define "previewImage"}}<img src="{{.}}" alt="Preview" class="preview-image" />{{end}}

{{define "previewVideo"}}<video src="{{.}}" controls class="preview-video">
  Your browser does not support video preview.
</video>{{end}}

{{define "previewAudio"}}<div class="audio-placeholder">
  {{audioIcon}}
  <div class="audio-info">
    <div class="audio-title">Audio File Ready</div>
    <div class="audio-subtitle">Click analyze to process</div>
  </div>
  <audio src="{{.}}" controls class="preview-audio">
    Your browser does not support audio preview.
  </audio>
</div>{{end}}

{{define "submit"}}<button type="submit" id="analyzeButton" class="analyze-button"{{if .Disabled}} disabled{{end}}>
  <span id="buttonContent" class="button-content">{{if .Loading}}<div class="loading-spinner"></div>
    <span>Analyzing...</span>{{else}}{{shieldIcon}}
    <span>Analyze Media</span>{{end}}</span>
</button>{{end}}

{{define "result"}}<div id="resultCard" class="result-card {{.Class}}"{{if .Hidden}} style="display: none"{{end}}>
  <div id="resultIcon">{{.Icon}}</div>
  <div id="resultDescription" class="result-description">{{.Text}}</div>
</div>{{end}}

{{define "notices"}}{{range .}}<div class="result {{.Level}} notice" role="alert" data-notice="{{.ID}}">{{.Message}}</div>
{{end}}{{end}}
`))

func execute(name string, data any) template.HTML {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(b.String())
}

// UploadText returns the idle prompt, or the selected file summary
func UploadText(v widget.View) template.HTML {
	if v.File == nil {
		return execute("uploadIdle", string(v.Kind))
	}
	return execute("uploadSelected", struct {
		Name, Size, Title string
	}{v.File.Name, FormatMB(v.File.Size), v.Kind.Title()})
}

// UploadIcon returns the default upload icon, or the kind icon once a file is selected
func UploadIcon(v widget.View) template.HTML {
	if v.File == nil {
		return template.HTML(defaultUploadIcon)
	}
	return TypeIcon(v.Kind)
}

// TypeIcon returns the icon for kind, falling back to the image icon
func TypeIcon(k media.Kind) template.HTML {
	if icon, ok := typeIcons[k]; ok {
		return template.HTML(icon)
	}
	return template.HTML(typeIcons[media.KindImage])
}

type detail struct {
	Label, Value string
}

// FileDetails returns the detail grid for the selected file
func FileDetails(f *widget.FileView) template.HTML {
	if f == nil {
		return ""
	}

	fileType := f.ContentType
	if fileType == "" {
		fileType = "Unknown"
	}
	modified := "Unknown"
	if !f.ModTime.IsZero() {
		modified = f.ModTime.Format("1/2/2006")
	}

	rows := []detail{
		{"File Name", f.Name},
		{"File Size", FormatMB(f.Size) + " MB"},
		{"File Type", fileType},
		{"Last Modified", modified},
	}
	if d := f.Details; !d.Empty() {
		if d.Taken != nil {
			rows = append(rows, detail{"Captured", d.Taken.Format("1/2/2006 15:04")})
		}
		if d.Camera != "" {
			rows = append(rows, detail{"Camera", d.Camera})
		}
	}

	return execute("details", rows)
}

// Preview returns the preview element for a file of kind served at url
func Preview(k media.Kind, url string) template.HTML {
	if url == "" {
		return ""
	}
	switch k {
	case media.KindVideo:
		return execute("previewVideo", url)
	case media.KindAudio:
		return execute("previewAudio", url)
	default:
		return execute("previewImage", url)
	}
}

// SubmitButton returns the analyze button in its idle or busy state
func SubmitButton(v widget.View) template.HTML {
	return execute("submit", struct {
		Loading, Disabled bool
	}{v.Loading, !v.CanSubmit()})
}

// ResultCard returns the verdict card. It is hidden when r is nil.
func ResultCard(r *widget.Result) template.HTML {
	data := struct {
		Class  string
		Hidden bool
		Icon   template.HTML
		Text   template.HTML
	}{Class: verdict.Neutral.Class(), Hidden: true}

	if r != nil {
		data.Class = r.Verdict.Class()
		data.Hidden = false
		data.Icon = template.HTML(resultIcons[r.Verdict])
		data.Text = ResultText(r.Text)
	}

	return execute("result", data)
}

// ResultText sanitises untrusted text and keeps its line breaks
func ResultText(text string) template.HTML {
	return template.HTML(resultPolicy.Sanitize(strings.ReplaceAll(text, "\n", "<br>")))
}

// Notices returns the transient notifications
func Notices(list []notify.Notice) template.HTML {
	if len(list) == 0 {
		return ""
	}
	return execute("notices", list)
}

// FormatMB formats a byte count as megabytes with two decimals
func FormatMB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/1024/1024)
}
