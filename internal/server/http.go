package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/waste-estimator/constants"
	"github.com/joseph-ayodele/waste-estimator/internal/common"
	"github.com/joseph-ayodele/waste-estimator/internal/core"
	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
	"github.com/joseph-ayodele/waste-estimator/internal/export"
)

//go:embed index.html
var indexHTML []byte

const multipartMemory = 8 << 20

// DocumentProcessor is what the HTTP and gRPC handlers need from the core:
// satisfied by *core.Processor directly and by the bounded worker queue.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, data []byte) (core.Result, error)
	ExtractPages(ctx context.Context, data []byte) (pdftext.Pages, error)
}

// HTTPServer serves the upload, debug and export endpoints.
type HTTPServer struct {
	proc     DocumentProcessor
	exporter *export.Service
	cfg      common.ServerConfig
	logger   *slog.Logger
}

func NewHTTPServer(proc DocumentProcessor, exporter *export.Service, cfg common.ServerConfig, logger *slog.Logger) *HTTPServer {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	return &HTTPServer{proc: proc, exporter: exporter, cfg: cfg, logger: logger}
}

// Routes builds the chi router with the middleware stack.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID(s.logger))
	r.Use(AccessLog(s.logger))
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Post("/upload", s.handleUpload)
	r.Post("/debug", s.handleDebug)
	r.Post("/export", s.handleExport)
	return r
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r, true)
	if !ok {
		return
	}
	res, err := s.proc.ProcessDocument(r.Context(), up.data)
	if err != nil {
		s.writeProcessingError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewEstimateResponse(common.RequestIDFromContext(r.Context()), up.filename, res, s.previewChars()))
}

func (s *HTTPServer) handleDebug(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r, false)
	if !ok {
		return
	}
	pages, err := s.proc.ExtractPages(r.Context(), up.data)
	if err != nil {
		s.writeProcessingError(w, r, err)
		return
	}
	out := make([]PageText, 0, len(pages))
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			text = NoTextPlaceholder
		}
		out = append(out, PageText{Page: i + 1, Text: text})
	}
	writeJSON(w, http.StatusOK, map[string][]PageText{"pages": out})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = constants.ExportXLSX
	}
	if format != constants.ExportXLSX && format != constants.ExportPDF {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "format must be xlsx or pdf"})
		return
	}

	up, ok := s.readUpload(w, r, true)
	if !ok {
		return
	}
	res, err := s.proc.ProcessDocument(r.Context(), up.data)
	if err != nil {
		s.writeProcessingError(w, r, err)
		return
	}

	var (
		body []byte
		mime string
	)
	switch format {
	case constants.ExportPDF:
		body, err = s.exporter.ExportPDF(res.Summary)
		mime = constants.MimePDF
	default:
		body, err = s.exporter.ExportXLSX(res.Summary, res.Items)
		mime = constants.MimeXLSX
	}
	if err != nil {
		common.LoggerFromContext(r.Context(), s.logger).Error("export.failed", "format", format, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error exporting estimate: " + err.Error()})
		return
	}

	name := strings.TrimSuffix(filepath.Base(up.filename), filepath.Ext(up.filename)) + "-waste." + format
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type upload struct {
	filename string
	data     []byte
}

// readUpload pulls the "file" part out of a multipart request and writes the
// 400 response itself when the upload is unusable. checkName enforces a
// non-empty .pdf filename.
func (s *HTTPServer) readUpload(w http.ResponseWriter, r *http.Request, checkName bool) (upload, bool) {
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("File too large (max %d bytes)", s.cfg.MaxUploadBytes)})
			return upload{}, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return upload{}, false
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		// a part with an empty filename is parsed as a plain form value
		if _, present := r.MultipartForm.Value["file"]; present && checkName {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file selected"})
			return upload{}, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file uploaded"})
		return upload{}, false
	}
	defer file.Close()

	if checkName {
		if filenameValidator(hdr.Filename, common.Required).HasErrors() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file selected"})
			return upload{}, false
		}
		if filenameValidator(hdr.Filename, common.Extension(allowedExtensions()...)).HasErrors() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "File must be a PDF"})
			return upload{}, false
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if tooLarge(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("File too large (max %d bytes)", s.cfg.MaxUploadBytes)})
			return upload{}, false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Could not read upload: " + err.Error()})
		return upload{}, false
	}

	common.LoggerFromContext(r.Context(), s.logger).Debug("upload.received", "filename", hdr.Filename, "bytes", len(data))
	return upload{filename: hdr.Filename, data: data}, true
}

// filenameValidator runs the given rules against an uploaded filename.
func filenameValidator(filename string, rules ...common.ValidationRule) *common.Validator {
	return common.NewValidator().Field("filename", filename, rules...)
}

func allowedExtensions() []string {
	out := make([]string, 0, len(constants.AllowedUploadExtensions))
	for ext := range constants.AllowedUploadExtensions {
		out = append(out, ext)
	}
	return out
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || errors.Is(err, common.ErrTooLarge)
}

func (s *HTTPServer) writeProcessingError(w http.ResponseWriter, r *http.Request, err error) {
	logger := common.LoggerFromContext(r.Context(), s.logger)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotPDF):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	logger.Error("processing.failed", "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: "Error processing PDF: " + err.Error()})
}

func (s *HTTPServer) previewChars() int {
	if s.cfg.PreviewChars > 0 {
		return s.cfg.PreviewChars
	}
	return 5000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("http.encode.failed", "error", err)
	}
}

// NewServer wraps the router in an *http.Server with conservative header timeouts.
func (s *HTTPServer) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
