package chi

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	if len(s.opts.IndexHTML) == 0 {
		writeError(w, http.StatusNotFound, codeNotFound, "index page not configured")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(s.opts.IndexHTML))
}

// Image handles GET /img/*. Paths resolve inside the image root only.
func (s *Server) Image(w http.ResponseWriter, r *http.Request) {
	if s.opts.Images == nil {
		writeError(w, http.StatusNotFound, codeNotFound, "image serving disabled")
		return
	}

	name, ok := imagePath(chi.URLParam(r, "*"))
	if !ok {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid image path")
		return
	}

	f, err := s.opts.Images.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to open image", zap.String("file", name), zap.Error(err))
		}
		writeError(w, http.StatusNotFound, codeImageNotFound, "image not found")
		return
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil || st.IsDir() {
		writeError(w, http.StatusNotFound, codeImageNotFound, "image not found")
		return
	}

	http.ServeContent(w, r, st.Name(), st.ModTime(), f)
}

// imagePath cleans a request path into a root-relative file name.
func imagePath(raw string) (string, bool) {
	if raw == "" || strings.Contains(raw, "\\") {
		return "", false
	}
	name := path.Clean("/" + raw)[1:]
	if name == "" || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
