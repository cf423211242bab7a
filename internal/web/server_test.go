package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/notify"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/preview"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/pkg/classifier"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testHost struct {
	server   *Server
	sessions *Registry
	previews *preview.MemoryStore
	calls    *atomic.Int32
	cookie   *http.Cookie
	spoolDir string
}

func newTestHost(t *testing.T, backend http.HandlerFunc) *testHost {
	t.Helper()

	calls := &atomic.Int32{}
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		backend(w, r)
	}))
	t.Cleanup(api.Close)

	previews := preview.NewMemoryStore("")
	client := classifier.New(api.URL+"/api", classifier.WithProgressInterval(0))
	sessions := NewRegistry(func() (*widget.Widget, error) {
		return widget.New(widget.Options{
			Classifier: client,
			Previews:   previews,
			Notices:    notify.NewCenter(time.Minute),
		})
	}, time.Hour, nil)

	spoolDir := t.TempDir()
	spool, err := NewSpool(spoolDir)
	require.NoError(t, err)

	srv, err := NewServer(Options{Sessions: sessions, Spool: spool, Previews: previews, NoticeTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close(context.Background()) })

	return &testHost{server: srv, sessions: sessions, previews: previews, calls: calls, spoolDir: spoolDir}
}

func (h *testHost) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			h.cookie = c
		}
	}
	return rec
}

func (h *testHost) page(t *testing.T) string {
	t.Helper()

	rec := h.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func (h *testHost) post(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return h.do(t, httptest.NewRequest(http.MethodPost, path, nil))
}

func (h *testHost) postForm(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(t, req)
}

func (h *testHost) upload(t *testing.T, path, field, name, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("last_modified", "1710000000000"))

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, name))
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.do(t, req)
}

func (h *testHost) widget(t *testing.T) *widget.Widget {
	t.Helper()

	require.NotNil(t, h.cookie)
	w, ok := h.sessions.Get(h.cookie.Value)
	require.True(t, ok)
	return w
}

func successBackend(result string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"success","result":%q,"source":"demo_mode"}`, result)
	}
}

func TestIndex_OpensSession(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))

	body := h.page(t)
	require.NotNil(t, h.cookie)
	assert.Contains(t, body, "Drop your image here or click to browse")
	assert.Equal(t, 1, h.sessions.Len())

	h.page(t)
	assert.Equal(t, 1, h.sessions.Len())
}

func TestSelectFile_ShowsPreviewAndServesBytes(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	rec := h.upload(t, "/widget/file", "file", "cat.png", "image/png", "png-bytes")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	v := h.widget(t).View()
	require.NotNil(t, v.File)
	assert.Equal(t, "cat.png", v.File.Name)
	assert.Equal(t, "image/png", v.File.ContentType)
	assert.Equal(t, int64(len("png-bytes")), v.File.Size)
	assert.Equal(t, time.UnixMilli(1710000000000), v.File.ModTime)

	body := h.page(t)
	assert.Contains(t, body, "cat.png")
	assert.Contains(t, body, v.Preview.URL)

	rec = h.do(t, httptest.NewRequest(http.MethodGet, v.Preview.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestPreview_OtherSessionNotFound(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)
	h.upload(t, "/widget/file", "file", "cat.png", "image/png", "png-bytes")
	url := h.widget(t).View().Preview.URL

	h.cookie = nil
	rec := h.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectFile_RejectedShowsNotice(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	rec := h.upload(t, "/widget/file", "file", "notes.txt", "text/plain", "hello")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	assert.False(t, h.widget(t).View().HasFile())
	assert.Zero(t, h.previews.Live())
	assert.Contains(t, h.page(t), "Invalid file type for image. Please select a valid image file.")
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestSelectFile_OversizeRejectedAndSpoolCleared(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := mw.WriteField("last_modified", "1710000000000")
		if err == nil {
			hdr := make(textproto.MIMEHeader)
			hdr.Set("Content-Disposition", `form-data; name="file"; filename="huge.png"`)
			hdr.Set("Content-Type", "image/png")
			var part io.Writer
			if part, err = mw.CreatePart(hdr); err == nil {
				_, err = io.Copy(part, io.LimitReader(zeroReader{}, media.MaxFileSize+1))
			}
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req := httptest.NewRequest(http.MethodPost, "/widget/file", pr)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := h.do(t, req)
	pr.Close()

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, h.page(t), "File too large. Maximum size is 100MB.")
	assert.False(t, h.widget(t).View().HasFile())
	assert.Zero(t, h.previews.Live())

	entries, err := os.ReadDir(h.spoolDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDrop_SelectsFirstFile(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	assert.Equal(t, http.StatusNoContent, h.post(t, "/widget/drag/enter").Code)
	assert.True(t, h.widget(t).View().DragActive)

	rec := h.upload(t, "/widget/drop", "files", "song.unknown.mp3", "application/octet-stream", "id3")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	v := h.widget(t).View()
	assert.False(t, v.DragActive)
	assert.False(t, v.HasFile(), "image kind rejects an mp3")

	h.postForm(t, "/widget/kind", "kind=audio")
	h.upload(t, "/widget/drop", "files", "song.mp3", "application/octet-stream", "id3")

	v = h.widget(t).View()
	require.True(t, v.HasFile())
	assert.Empty(t, v.File.ContentType)
}

func TestDrag_Phases(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	assert.Equal(t, http.StatusNoContent, h.post(t, "/widget/drag/over").Code)
	assert.True(t, h.widget(t).View().DragActive)
	assert.Equal(t, http.StatusNoContent, h.post(t, "/widget/drag/leave").Code)
	assert.False(t, h.widget(t).View().DragActive)
	assert.Equal(t, http.StatusNotFound, h.post(t, "/widget/drag/sideways").Code)
}

func TestSubmit_RendersVerdict(t *testing.T) {
	h := newTestHost(t, successBackend("This video is REAL with 98% confidence"))
	h.page(t)

	h.postForm(t, "/widget/kind", "kind=video")
	h.upload(t, "/widget/file", "file", "clip.mp4", "video/mp4", "mp4-bytes")

	rec := h.post(t, "/widget/submit")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, int32(1), h.calls.Load())

	body := h.page(t)
	assert.Contains(t, body, "result-card authentic")
	assert.Contains(t, body, "Demo Mode - Backend Only")
}

func TestSubmit_ServerError(t *testing.T) {
	h := newTestHost(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	h.page(t)
	h.upload(t, "/widget/file", "file", "cat.png", "image/png", "png-bytes")

	h.post(t, "/widget/submit")

	res := h.widget(t).View().Result
	require.NotNil(t, res)
	assert.False(t, res.Authoritative)
	assert.Contains(t, res.Text, "Server error")
	assert.Contains(t, res.Text, "500")
}

func TestSubmit_NoFilePrompts(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	h.post(t, "/widget/submit")
	assert.Zero(t, h.calls.Load())
	assert.Contains(t, h.page(t), widget.PromptNoFile)

	h.post(t, "/widget/prompt/dismiss")
	assert.NotContains(t, h.page(t), widget.PromptNoFile)
}

func TestRemove_ReleasesPreview(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)
	h.upload(t, "/widget/file", "file", "cat.png", "image/png", "png-bytes")
	require.Equal(t, 1, h.previews.Live())

	rec := h.post(t, "/widget/remove")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Zero(t, h.previews.Live())
	assert.False(t, h.widget(t).View().HasFile())
}

func TestSelectKind_Invalid(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)

	rec := h.postForm(t, "/widget/kind", "kind=document")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))

	rec := h.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Nil(t, h.cookie)
}

func TestRegistry_SweepClosesIdleWidgets(t *testing.T) {
	h := newTestHost(t, successBackend("Real"))
	h.page(t)
	h.upload(t, "/widget/file", "file", "cat.png", "image/png", "png-bytes")
	w := h.widget(t)

	assert.Zero(t, h.sessions.Sweep(context.Background()))

	h.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, h.sessions.Sweep(context.Background()))
	assert.Zero(t, h.sessions.Len())
	assert.Zero(t, h.previews.Live())
	assert.ErrorIs(t, w.Remove(context.Background()), widget.ErrClosed)

	h.page(t)
	assert.Equal(t, 1, h.sessions.Len(), "expired cookie opens a fresh session")
}

func TestSpool_SaveAndDiscard(t *testing.T) {
	dir := t.TempDir()
	spool, err := NewSpool(dir)
	require.NoError(t, err)

	f, err := spool.Save(`C:\Users\me\photo.jpg`, "image/jpeg", time.Now(), strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", f.Name)
	assert.Equal(t, int64(4), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(b))

	entries, _ := os.ReadDir(dir)
	require.Len(t, entries, 1)

	require.NoError(t, f.Discard())
	entries, _ = os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestSpool_Cleanup(t *testing.T) {
	dir := t.TempDir()
	spool, err := NewSpool(dir)
	require.NoError(t, err)

	_, err = spool.Save("a.png", "image/png", time.Now(), strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644))

	n, err := spool.Cleanup(time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = spool.Cleanup(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries, _ := os.ReadDir(dir)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}
