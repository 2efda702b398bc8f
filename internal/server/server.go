package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/internal/quote"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
	schedules   *loans.AmortizationScheduleGenerator
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the web UI and calculator API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		schedules:   loans.NewAmortizationScheduleGenerator(logger),
		now:         time.Now,
	}

	mux := http.NewServeMux()

	// Single calculation from the web form
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Preset values for the "try an example" button
	mux.HandleFunc("/api/example", h.handleExample)

	// Downloadable summary of a calculation
	mux.HandleFunc("/api/export", h.handleExport)

	// Batch calculation from an uploaded loans.yaml
	mux.HandleFunc("/api/quotes", h.handleQuotes)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

type calculateRequest struct {
	validation.LoanForm
	Schedule bool `json:"schedule"`
}

type calculateResponse struct {
	Form     validation.LoanForm `json:"form"`
	Inputs   loans.LoanInputs    `json:"inputs"`
	Results  loans.LoanResults   `json:"results"`
	Summary  output.Summary      `json:"summary"`
	Schedule []loans.Payment     `json:"schedule,omitempty"`
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Fields validation.FieldErrors `json:"fields,omitempty"`
}

type quotesResponse struct {
	Loans    []string        `json:"loans"`
	Quotes   []quoteResponse `json:"quotes"`
	CSV      string          `json:"csv"`
	Warnings []string        `json:"warnings,omitempty"`
	Duration string          `json:"duration"`
}

type quoteResponse struct {
	Name     string            `json:"name"`
	Inputs   loans.LoanInputs  `json:"inputs"`
	Results  loans.LoanResults `json:"results"`
	Schedule []loans.Payment   `json:"schedule,omitempty"`
}

// exportDocument is the YAML rendition of a summary download.
type exportDocument struct {
	Summary  output.Summary    `yaml:"summary"`
	Inputs   loans.LoanInputs  `yaml:"inputs"`
	Results  loans.LoanResults `yaml:"results"`
	Schedule []loans.Payment   `yaml:"schedule,omitempty"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	resp, ok := h.calculate(w, r, "server.handleCalculate")
	if !ok {
		return
	}

	h.logger.Info("loan calculated",
		zap.String("op", "server.handleCalculate"),
		zap.Float64("principal", resp.Results.Principal),
		zap.Float64("monthlyPayment", resp.Results.MonthlyPayment),
		zap.Int("scheduledPayments", len(resp.Schedule)),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleExample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	form := validation.ExampleForm()
	inputs, err := form.Inputs()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("example preset is invalid: %v", err), "server.handleExample")
		return
	}
	h.writeJSON(w, http.StatusOK, h.buildResponse(form, inputs, false))
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	exportFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if exportFormat == "" {
		exportFormat = constants.OutputFormatText
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleExport")
		return
	}

	resp, ok := h.calculate(w, r, "server.handleExport")
	if !ok {
		return
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		extension   string
	)
	switch exportFormat {
	case constants.OutputFormatCSV:
		contentType, extension = "text/csv; charset=utf-8", "csv"
		err = output.SummaryCsv(&buf, resp.Summary)
	case constants.OutputFormatYAML:
		contentType, extension = "application/yaml", "yaml"
		err = yaml.NewEncoder(&buf).Encode(exportDocument{
			Summary:  resp.Summary,
			Inputs:   resp.Inputs,
			Results:  resp.Results,
			Schedule: resp.Schedule,
		})
	default:
		contentType, extension = "text/plain; charset=utf-8", "txt"
		err = output.WriteSummary(&buf, resp.Summary)
		if err == nil && len(resp.Schedule) > 0 {
			buf.WriteString("\n")
			output.ScheduleFormat(&buf, resp.Schedule)
		}
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render export: %v", err), "server.handleExport")
		return
	}

	filename := fmt.Sprintf("loan-summary-%s.%s", h.now().Format("2006-01-02"), extension)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", "server.handleExport"),
			zap.Error(err),
		)
	}
}

func (h *handler) handleQuotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	const op = "server.handleQuotes"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results, err := quote.GetQuotes(h.logger, *cfg)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to calculate loans: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	resp := quotesResponse{
		Loans:    make([]string, 0, len(results)),
		Quotes:   make([]quoteResponse, 0, len(results)),
		CSV:      output.CsvString(results),
		Warnings: warnings,
		Duration: elapsed.String(),
	}
	for _, result := range results {
		resp.Loans = append(resp.Loans, result.Name)
		resp.Quotes = append(resp.Quotes, quoteResponse{
			Name:     result.Name,
			Inputs:   result.Inputs,
			Results:  result.Results,
			Schedule: result.Schedule,
		})
	}

	h.logger.Info("loans calculated",
		zap.String("op", op),
		zap.Int("loans", len(resp.Loans)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// calculate decodes a form from the request body and runs it. When it returns
// false an error response has already been written.
func (h *handler) calculate(w http.ResponseWriter, r *http.Request, op string) (calculateResponse, bool) {
	var req calculateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
		case errors.Is(err, io.EOF):
			h.respondError(w, http.StatusBadRequest, "missing loan form", op)
		default:
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode loan form: %v", err), op)
		}
		return calculateResponse{}, false
	}

	inputs, err := req.LoanForm.Inputs()
	if err != nil {
		var fieldErrs validation.FieldErrors
		if errors.As(err, &fieldErrs) {
			h.logger.Debug("loan form rejected",
				zap.String("op", op),
				zap.String("fields", fieldErrs.Error()),
			)
			h.writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:  "invalid loan form",
				Fields: fieldErrs,
			})
			return calculateResponse{}, false
		}
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return calculateResponse{}, false
	}

	return h.buildResponse(req.LoanForm, inputs, req.Schedule), true
}

func (h *handler) buildResponse(form validation.LoanForm, inputs loans.LoanInputs, schedule bool) calculateResponse {
	results := loans.Calculate(inputs)
	resp := calculateResponse{
		Form:    form.Normalized(),
		Inputs:  inputs,
		Results: results,
		Summary: output.NewSummary(inputs, results, form.DownPaymentIsPercent, h.now()),
	}
	if schedule {
		resp.Schedule = h.schedules.GenerateSchedule(inputs)
	}
	return resp
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculator request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes the payload before writing the header so an encoding
// failure still reaches the client as a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"failed to encode response"}`+"\n")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
