package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/finance-dashboard/internal/analysis"
	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/pkg/cashcycle"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/dupont"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/output"
	"github.com/iwvelando/finance-dashboard/pkg/payroll"
	"github.com/iwvelando/finance-dashboard/pkg/ratios"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
	"github.com/iwvelando/finance-dashboard/pkg/valuation"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, allowedOrigins []string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)

		r.Post("/ratios", h.handleRatios)
		r.Post("/cash-conversion", h.handleCashConversion)
		r.Post("/dupont", h.handleDuPont)
		r.Post("/valuation", h.handleValuation)
		r.Post("/forecast", h.handleForecast)
		r.Post("/payroll/raise", h.handlePayrollRaise)

		// Full workbook analysis (file upload)
		r.Post("/analysis", h.handleAnalysis)
	})

	return r
}

type statementsRequest struct {
	Performance  statements.FinancialPerformance `json:"performance"`
	BalanceSheet statements.BalanceSheetSnapshot `json:"balanceSheet"`
}

type valuationRequest struct {
	Valuation    valuation.Inputs                `json:"valuation"`
	BalanceSheet statements.BalanceSheetSnapshot `json:"balanceSheet"`
}

type forecastRequest struct {
	History    []forecast.HistoricalPoint `json:"history"`
	Parameters forecast.Parameters        `json:"parameters"`
	Actuals    *forecast.Actuals          `json:"actuals,omitempty"`
	Seed       uint64                     `json:"seed,omitempty"`
	Amplitude  *float64                   `json:"amplitude,omitempty"`
}

type forecastResponse struct {
	Points  []forecast.DataPoint `json:"points"`
	Summary forecast.Summary     `json:"summary"`
	Seed    uint64               `json:"seed,omitempty"`
}

type payrollRaiseRequest struct {
	Employees     []payroll.Employee     `json:"employees"`
	SalaryHistory []payroll.SalaryRecord `json:"salaryHistory"`
	EmployeeID    int                    `json:"employeeId"`
	Amount        float64                `json:"amount"`
	StartDate     string                 `json:"startDate"`
}

type payrollRaiseResponse struct {
	Employees     []payroll.Employee     `json:"employees"`
	SalaryHistory []payroll.SalaryRecord `json:"salaryHistory"`
	Summary       payroll.Summary        `json:"summary"`
}

type analysisResponse struct {
	Report   analysis.Report `json:"report"`
	CSV      string          `json:"csv"`
	Warnings []string        `json:"warnings,omitempty"`
	Duration string          `json:"duration"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRatios(w http.ResponseWriter, r *http.Request) {
	var req statementsRequest
	if !h.decodeJSON(w, r, &req, "server.handleRatios") {
		return
	}
	h.writeJSON(w, http.StatusOK, ratios.Compute(req.Performance, req.BalanceSheet))
}

func (h *handler) handleCashConversion(w http.ResponseWriter, r *http.Request) {
	var req cashcycle.Data
	if !h.decodeJSON(w, r, &req, "server.handleCashConversion") {
		return
	}
	h.writeJSON(w, http.StatusOK, cashcycle.Compute(req))
}

func (h *handler) handleDuPont(w http.ResponseWriter, r *http.Request) {
	var req statementsRequest
	if !h.decodeJSON(w, r, &req, "server.handleDuPont") {
		return
	}
	h.writeJSON(w, http.StatusOK, dupont.Compute(req.Performance, req.BalanceSheet))
}

func (h *handler) handleValuation(w http.ResponseWriter, r *http.Request) {
	var req valuationRequest
	if !h.decodeJSON(w, r, &req, "server.handleValuation") {
		return
	}
	h.writeJSON(w, http.StatusOK, valuation.Summarize(req.Valuation, req.BalanceSheet))
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"

	var req forecastRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	if err := checkForecastPeriods(req.Parameters.Periods); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	// Without a seed the API answers deterministically.
	var jitter forecast.Jitter = forecast.NoJitter{}
	if req.Seed != 0 {
		amplitude := constants.DefaultJitterAmplitude
		if req.Amplitude != nil {
			amplitude = *req.Amplitude
		}
		jitter = forecast.NewUniformJitter(amplitude, req.Seed)
	}

	points, err := forecast.Generate(req.History, req.Parameters, req.Actuals, jitter)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	lastRevenue := 0.0
	if n := len(req.History); n > 0 {
		lastRevenue = req.History[n-1].Revenue
	}
	if req.Actuals != nil && req.Actuals.Revenue != 0 {
		lastRevenue = req.Actuals.Revenue
	}

	h.writeJSON(w, http.StatusOK, forecastResponse{
		Points:  points,
		Summary: forecast.Summarize(points, lastRevenue, req.Parameters.Periods),
		Seed:    req.Seed,
	})
}

func (h *handler) handlePayrollRaise(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePayrollRaise"

	var req payrollRaiseRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	employees, history, err := payroll.RaiseSalary(req.Employees, req.SalaryHistory, req.EmployeeID, req.Amount, req.StartDate)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, payroll.ErrUnknownEmployee) {
			status = http.StatusNotFound
		}
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, payrollRaiseResponse{
		Employees:     employees,
		SalaryHistory: history,
		Summary:       payroll.Summarize(employees),
	})
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing workbook file", op)
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

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read workbook: %v", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := checkForecastPeriods(conf.Forecast.Periods); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var seed uint64
	if rawSeed := strings.TrimSpace(r.FormValue("seed")); rawSeed != "" {
		seed, err = strconv.ParseUint(rawSeed, 10, 64)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid seed %q", rawSeed), op)
			return
		}
	}

	report, err := analysis.Run(h.logger, *conf, analysis.Options{Jitter: conf.Forecast.Jitter.NewJitter(seed)})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to run analysis: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := analysisResponse{
		Report:   report,
		CSV:      output.CsvString(report),
		Warnings: report.Warnings,
		Duration: elapsed.String(),
	}

	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("run_id", report.RunID),
		zap.Int("points", len(report.Forecast)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// checkForecastPeriods bounds the work a single request can ask for.
func checkForecastPeriods(periods int) error {
	if periods > constants.MaxForecastPeriods {
		return fmt.Errorf("forecast periods %d exceeds limit of %d", periods, constants.MaxForecastPeriods)
	}
	return nil
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}

func (h *handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.logger.Info("HTTP request",
			zap.String("op", "server.loggingMiddleware"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
