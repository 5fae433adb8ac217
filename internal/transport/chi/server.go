package chi

import (
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	healthuc "github.com/kailas-cloud/tagquery/internal/usecase/health"
	imageinfouc "github.com/kailas-cloud/tagquery/internal/usecase/imageinfo"
	searchuc "github.com/kailas-cloud/tagquery/internal/usecase/search"
	vocabularyuc "github.com/kailas-cloud/tagquery/internal/usecase/vocabulary"
	"github.com/kailas-cloud/tagquery/internal/version"
)

// maxBodyBytes caps request bodies of /search and /validate.
const maxBodyBytes = 1 << 20

// Options configures the non-API parts of the server.
type Options struct {
	// Images serves /img/*. Nil disables image serving.
	Images *os.Root
	// IndexHTML is served on GET /. Empty disables the page.
	IndexHTML []byte
	// TagFilterLimit caps /tags responses; 0 means unlimited.
	TagFilterLimit int
}

// Server serves the tag search HTTP API.
type Server struct {
	search        *searchuc.Service
	vocabulary    *vocabularyuc.Service
	imageinfo     *imageinfouc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	vocabulary *vocabularyuc.Service,
	imageinfo *imageinfouc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:        search,
		vocabulary:    vocabulary,
		imageinfo:     imageinfo,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Register mounts all routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/", s.Index)
	r.Post("/search", s.Search)
	r.Get("/tags", s.FilterTags)
	r.Post("/validate", s.Validate)
	r.Get("/image_info", s.ImageInfo)
	r.Get("/img/*", s.Image)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

type searchRequest struct {
	Tags string `json:"tags"`
}

type searchResponse struct {
	Images []string `json:"images"`
	Count  int      `json:"count"`
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.search.Search(r.Context(), req.Tags)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	images := res.Images()
	if images == nil {
		images = []string{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Images: images, Count: res.Count()})
}

// FilterTags handles GET /tags?filter=.
func (s *Server) FilterTags(w http.ResponseWriter, r *http.Request) {
	names := s.vocabulary.Filter(r.URL.Query().Get("filter"), s.opts.TagFilterLimit)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// Validate handles POST /validate. The body is the raw query text.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.vocabulary.Validate(string(body)); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type imageTag struct {
	Name        string  `json:"name"`
	Translation string  `json:"translation,omitempty"`
	Score       float64 `json:"score"`
	Category    string  `json:"category"`
}

type imageInfoResponse struct {
	ID     string     `json:"id"`
	Source string     `json:"source"`
	Title  string     `json:"title,omitempty"`
	Tags   []imageTag `json:"tags"`
}

// ImageInfo handles GET /image_info?file=.
func (s *Server) ImageInfo(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Missing file parameter")
		return
	}

	info, err := s.imageinfo.Get(file)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := imageInfoResponse{
		ID:     info.ID,
		Source: info.Source,
		Title:  info.Title,
		Tags:   make([]imageTag, len(info.Tags)),
	}
	for i, t := range info.Tags {
		resp.Tags[i] = imageTag{
			Name:        t.Name,
			Translation: t.Translation,
			Score:       t.Score,
			Category:    t.Category.String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("Unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
