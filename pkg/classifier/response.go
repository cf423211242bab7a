package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatusSuccess is the status value of a successful prediction
const StatusSuccess = "success"

// Known source tags and the labels shown for them
var sourceLabels = map[string]string{
	"huggingface_space": "🤖 Powered by Hugging Face Space",
	"demo_mode":         "⚠️ Demo Mode - Backend Only",
	"demo_fallback":     "⚠️ Demo Mode - Service Unavailable",
}

// Response is the JSON body returned by the prediction endpoint
type Response struct {
	Status   string    `json:"status"`
	Result   Text      `json:"result"`
	Error    string    `json:"error,omitempty"`
	Source   string    `json:"source,omitempty"`
	Note     string    `json:"note,omitempty"`
	FileInfo *FileInfo `json:"file_info,omitempty"`
}

// FileInfo echoes the metadata of the file the service processed
type FileInfo struct {
	Name   string  `json:"name"`
	Size   int64   `json:"size,omitempty"`
	SizeMB float64 `json:"size_mb"`
	SizeKB float64 `json:"size_kb,omitempty"`
}

// Text is a result field. Strings are taken as is; any other JSON value
// is kept as its compact JSON text.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*t = Text(buf.String())
	return nil
}

// hasResult reports whether a success body carries a non-null result
func hasResult(body []byte) bool {
	var fields struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return false
	}
	return len(fields.Result) > 0 && !bytes.Equal(fields.Result, []byte("null"))
}

// SourceLabel returns the friendly label for a source tag, or the tag itself
func SourceLabel(source string) string {
	if label, ok := sourceLabels[source]; ok {
		return label
	}
	return source
}

// FormatResult builds the text displayed for a successful response
func FormatResult(resp *Response) string {
	var b strings.Builder
	b.WriteString(string(resp.Result))

	if resp.Source != "" {
		b.WriteString("\n\n")
		b.WriteString(SourceLabel(resp.Source))
	}

	if resp.FileInfo != nil {
		fmt.Fprintf(&b, "\nProcessed: %s (%sMB)", resp.FileInfo.Name,
			strconv.FormatFloat(resp.FileInfo.SizeMB, 'f', -1, 64))
	}

	return b.String()
}
