package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/progress"
)

// FileField is the multipart field carrying the upload
const FileField = "file"

const maxResponseSize = 4 << 20

// Client talks to the remote classification service
type Client struct {
	baseURL          string
	http             *http.Client
	progressInterval time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithProgressInterval sets how often upload progress is logged; zero disables it
func WithProgressInterval(d time.Duration) Option {
	return func(c *Client) {
		c.progressInterval = d
	}
}

// New creates a client for the service rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		http:             &http.Client{},
		progressInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the prediction URL for kind
func (c *Client) Endpoint(kind media.Kind) string {
	return c.baseURL + "/predict/" + string(kind)
}

// Predict uploads f and returns the decoded service response.
// A response with a non-success status is returned together with a *ServiceError.
func (c *Client) Predict(ctx context.Context, kind media.Kind, f *media.File) (*Response, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	head, tail, contentType, err := multipartEnvelope(f)
	if err != nil {
		return nil, err
	}

	content := progress.NewReader(io.LimitReader(rc, f.Size), f.Name, f.Size, c.progressInterval)
	body := io.MultiReader(bytes.NewReader(head), content, bytes.NewReader(tail))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(kind), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.ContentLength = int64(len(head)) + f.Size + int64(len(tail))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	logger.Info("Submitting %s %s (%s) to %s", kind, f.Name, humanize.Bytes(uint64(f.Size)), req.URL.Redacted())

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("analysis canceled: %w", ctx.Err())
		}
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &DecodeError{Err: err}
	}

	if out.Status != StatusSuccess {
		return &out, &ServiceError{Message: out.Error}
	}
	if !hasResult(respBody) {
		return nil, &DecodeError{Err: ErrMissingResult}
	}

	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartEnvelope renders everything around the file bytes so the request
// can carry an exact Content-Length.
func multipartEnvelope(f *media.File) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	partType := f.ContentType
	if partType == "" {
		partType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FileField, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", partType)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, nil, "", fmt.Errorf("failed to write multipart header: %w", err)
	}

	head = append([]byte(nil), buf.Bytes()...)
	buf.Reset()

	if err := mw.Close(); err != nil {
		return nil, nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	tail = append([]byte(nil), buf.Bytes()...)

	return head, tail, mw.FormDataContentType(), nil
}
