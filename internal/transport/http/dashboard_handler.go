package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/nibaldox/dureza-relativa/internal/charts"
	apierrors "github.com/nibaldox/dureza-relativa/internal/errors"
	"github.com/nibaldox/dureza-relativa/internal/exporter"
	"github.com/nibaldox/dureza-relativa/internal/validation"
	"github.com/nibaldox/dureza-relativa/pkg/contracts/domain"
)

// UploadField is the multipart field carrying the data file
const UploadField = "file"

// multipart parts above this size spill to temporary files
const uploadMemory = 8 << 20

// Export formats of GET /records besides the chart encodings
const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

// DashboardHandler serves the dataset, chart and record endpoints
type DashboardHandler struct {
	service        DashboardServiceInterface
	options        *validation.OptionsValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewDashboardHandler creates the handler. Uploads larger than maxUploadBytes
// are rejected with 413.
func NewDashboardHandler(service DashboardServiceInterface, options *validation.OptionsValidator, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:        service,
		options:        options,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "dashboard_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the routes mounted under the API base path
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/datasets", func(r chi.Router) {
		r.Post("/", h.Upload)
		r.Get("/current", h.Current)
	})
	r.Get("/charts", h.Charts)
	r.Get("/charts/{kind}", h.Chart)
	r.Get("/records", h.Records)

	return r
}

// Upload handles POST /api/datasets
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "Dataset upload received",
		slog.String("name", header.Filename),
		slog.Int64("size", header.Size))

	info, err := h.service.Upload(r.Context(), file, header.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, info)
}

// Current handles GET /api/datasets/current
func (h *DashboardHandler) Current(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Current(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// Charts handles GET /api/charts
func (h *DashboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	opts, err := h.options.Validate(validation.RequestFromQuery(r.URL.Query()))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	set, err := h.service.Charts(r.Context(), opts.Filters, opts.Charts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, opts.Encoding, set)
}

// Chart handles GET /api/charts/{kind}. The charts query parameter is ignored.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req := validation.RequestFromQuery(r.URL.Query())
	req.Charts = nil
	opts, err := h.options.Validate(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	chart, err := h.service.Chart(r.Context(), kind, opts.Filters, opts.Charts.DetailLevel)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.respond(w, r, opts.Encoding, chart)
}

// RecordsResponse is the JSON and MessagePack body of GET /api/records
type RecordsResponse struct {
	Count   int                 `json:"count"`
	Records []domain.WellRecord `json:"records"`
}

// Records handles GET /api/records. format=csv and format=xlsx download the
// filtered records as a file.
func (h *DashboardHandler) Records(w http.ResponseWriter, r *http.Request) {
	req := validation.RequestFromQuery(r.URL.Query())
	export := strings.ToLower(req.Format)
	if export == formatCSV || export == formatXLSX {
		req.Format = ""
	}

	opts, err := h.options.Validate(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := h.service.Records(r.Context(), opts.Filters)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	switch export {
	case formatCSV:
		h.download(w, r, "text/csv; charset=utf-8", formatCSV, func(buf *bytes.Buffer) error {
			return exporter.EncodeRecordsCSV(buf, records, true)
		})
	case formatXLSX:
		h.download(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", formatXLSX, func(buf *bytes.Buffer) error {
			return exporter.EncodeRecordsXLSX(buf, records)
		})
	default:
		h.respond(w, r, opts.Encoding, RecordsResponse{Count: len(records), Records: records})
	}
}

// respond writes v as JSON through render, or as MessagePack
func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, enc exporter.Encoding, v interface{}) {
	if enc != exporter.EncodingMsgpack {
		render.JSON(w, r, v)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Encode(&buf, enc, v); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("encode response: %w", err))
		return
	}
	w.Header().Set("Content-Type", enc.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// download buffers an export so encoding failures still produce a problem response
func (h *DashboardHandler) download(w http.ResponseWriter, r *http.Request, contentType, ext string, encode func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export records: %w", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="records.%s"`, ext))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
