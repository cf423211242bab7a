package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/logger"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/render"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/widget"
)

const widgetKey = "widget"

func (s *Server) withSession(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil {
		if w, ok := s.opts.Sessions.Get(id); ok {
			c.Set(widgetKey, w)
			c.Next()
			return
		}
	}

	id, w, err := s.opts.Sessions.Create()
	if err != nil {
		logger.Error("Failed to open session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	c.Set(widgetKey, w)
	c.Next()
}

func widgetFrom(c *gin.Context) *widget.Widget {
	return c.MustGet(widgetKey).(*widget.Widget)
}

func backToPage(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) index(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	err := render.Page(c.Writer, render.PageData{
		Title:     s.opts.Title,
		View:      widgetFrom(c).View(),
		NoticeTTL: s.opts.NoticeTTL,
	})
	if err != nil {
		logger.Error("Failed to render page: %v", err)
	}
}

func (s *Server) selectKind(c *gin.Context) {
	kind, err := media.ParseKind(c.PostForm("kind"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if err := widgetFrom(c).SelectKind(c.Request.Context(), kind); err != nil {
		logger.Debug("Kind switch ignored: %v", err)
	}
	backToPage(c)
}

func (s *Server) selectFile(c *gin.Context) {
	f, err := s.readUpload(c, "file")
	if err != nil {
		logger.Error("Failed to read upload: %v", err)
		c.String(http.StatusBadRequest, "could not read upload")
		return
	}
	if f != nil {
		// validation failures surface as notices on the page
		widgetFrom(c).SelectFile(c.Request.Context(), f)
	}
	backToPage(c)
}

func (s *Server) drop(c *gin.Context) {
	f, err := s.readUpload(c, "files")
	if err != nil {
		logger.Error("Failed to read dropped files: %v", err)
		c.String(http.StatusBadRequest, "could not read upload")
		return
	}

	var files []*media.File
	if f != nil {
		files = append(files, f)
	}
	widgetFrom(c).Drop(c.Request.Context(), files)
	backToPage(c)
}

func (s *Server) drag(c *gin.Context) {
	w := widgetFrom(c)

	var err error
	switch c.Param("phase") {
	case "enter":
		err = w.DragEnter()
	case "over":
		err = w.DragOver()
	case "leave":
		err = w.DragLeave()
	default:
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Debug("Drag event ignored: %v", err)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) submit(c *gin.Context) {
	_, err := widgetFrom(c).Submit(c.Request.Context())
	switch {
	case err == nil:
	case errors.Is(err, widget.ErrNoFile), errors.Is(err, widget.ErrBusy), errors.Is(err, widget.ErrStale):
		logger.Debug("Submit: %v", err)
	default:
		logger.Warn("Submit failed: %v", err)
	}
	backToPage(c)
}

func (s *Server) remove(c *gin.Context) {
	widgetFrom(c).Remove(c.Request.Context())
	backToPage(c)
}

func (s *Server) dismissPrompt(c *gin.Context) {
	widgetFrom(c).DismissPrompt()
	backToPage(c)
}

func (s *Server) preview(c *gin.Context) {
	id := c.Param("id")
	if s.opts.Previews == nil || widgetFrom(c).View().Preview.ID != id {
		c.Status(http.StatusNotFound)
		return
	}

	f, ok := s.opts.Previews.Lookup(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	rc, err := f.Open()
	if err != nil {
		logger.Warn("Failed to open preview %s: %v", id, err)
		c.Status(http.StatusNotFound)
		return
	}
	defer rc.Close()

	contentType := f.ContentType
	if contentType == "" {
		contentType = media.DetectContentType(f.Name)
	}
	c.Header("Cache-Control", "private, no-store")

	if rs, ok := rc.(io.ReadSeeker); ok {
		c.Header("Content-Type", contentType)
		http.ServeContent(c.Writer, c.Request, f.Name, f.ModTime, rs)
		return
	}
	c.DataFromReader(http.StatusOK, f.Size, contentType, rc, nil)
}

// readUpload spools the first file part named field. It returns nil when
// the request carries no such part.
func (s *Server) readUpload(c *gin.Context, field string) (*media.File, error) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		return nil, err
	}

	var (
		file         *media.File
		lastModified string
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if file != nil {
				file.Discard()
			}
			return nil, err
		}

		switch {
		case part.FormName() == "last_modified":
			b, _ := io.ReadAll(io.LimitReader(part, 32))
			lastModified = string(b)
		case part.FormName() == field && part.FileName() != "" && file == nil:
			file, err = s.opts.Spool.Save(part.FileName(), declaredType(part.Header.Get("Content-Type")), time.Time{}, part)
			if err != nil {
				return nil, err
			}
			if file.Size > media.MaxFileSize {
				// leave the rest of the oversize body unread
				file.ModTime = parseLastModified(lastModified)
				return file, nil
			}
		}
		part.Close()
	}

	if file != nil {
		file.ModTime = parseLastModified(lastModified)
	}
	return file, nil
}

// declaredType treats the generic binary type as undeclared
func declaredType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "application/octet-stream" {
		return ""
	}
	return contentType
}

// parseLastModified reads a millisecond timestamp, falling back to now
func parseLastModified(v string) time.Time {
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil || ms <= 0 {
		return time.Now()
	}
	return time.UnixMilli(ms)
}
