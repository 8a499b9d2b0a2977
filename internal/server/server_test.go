package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-dashboard/pkg/cashcycle"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/dupont"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/payroll"
	"github.com/iwvelando/finance-dashboard/pkg/ratios"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
	"github.com/iwvelando/finance-dashboard/pkg/testutil"
	"github.com/iwvelando/finance-dashboard/pkg/valuation"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test", nil)
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body %q", rr.Body.String())
	}
}

func TestHandleVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected string
	}{
		{name: "Explicit version", version: " 1.2.3 ", expected: "1.2.3"},
		{name: "Empty version", version: "", expected: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(nil, 0, tt.version, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp["version"] != tt.expected {
				t.Errorf("expected version %q, got %q", tt.expected, resp["version"])
			}
		})
	}
}

func TestHandleRatios(t *testing.T) {
	payload := statementsRequest{
		Performance:  testutil.SamplePerformance(),
		BalanceSheet: testutil.SampleBalanceSheet(),
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/ratios")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp ratios.FinancialRatios
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.CurrentRatio-2.5) > 1e-9 {
		t.Errorf("expected current ratio 2.5, got %v", resp.CurrentRatio)
	}
}

func TestHandleCashConversion(t *testing.T) {
	rr := performJSON(t, newTestHandler(), testutil.SampleCashConversion(), "/api/cash-conversion")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp cashcycle.Data
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.CCC-(resp.DIO+resp.DSO-resp.DPO)) > 1e-9 {
		t.Errorf("expected CCC = DIO + DSO - DPO, got %v", resp.CCC)
	}
	if math.Abs(resp.CCC-138.06) > 0.01 {
		t.Errorf("expected CCC near 138.06, got %v", resp.CCC)
	}
}

func TestHandleDuPont(t *testing.T) {
	payload := statementsRequest{
		Performance:  testutil.SamplePerformance(),
		BalanceSheet: testutil.SampleBalanceSheet(),
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/dupont")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp dupont.Analysis
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.ROE-16.0588) > 1e-3 {
		t.Errorf("expected ROE near 16.06, got %v", resp.ROE)
	}
}

func TestHandleValuation(t *testing.T) {
	payload := valuationRequest{
		Valuation:    testutil.SampleValuationInputs(),
		BalanceSheet: testutil.SampleBalanceSheet(),
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/valuation")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp valuation.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if math.Abs(resp.WACC-10.75) > 1e-9 {
		t.Errorf("expected WACC 10.75, got %v", resp.WACC)
	}
}

func TestHandleForecast(t *testing.T) {
	payload := forecastRequest{
		History: testutil.SampleHistory(),
		Parameters: forecast.Parameters{
			Periods:            3,
			GrowthRate:         5,
			ConfidenceInterval: 80,
			Method:             forecast.MethodLinear,
		},
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/forecast")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp forecastResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(resp.Points))
	}
	if resp.Points[0].Period != "Jul 2024" || resp.Points[0].ForecastRevenue != 54600000 {
		t.Errorf("unexpected first point %+v", resp.Points[0])
	}
	if resp.Summary.LastForecastRevenue != resp.Points[2].ForecastRevenue {
		t.Errorf("expected summary to track last point, got %v", resp.Summary.LastForecastRevenue)
	}
}

func TestHandleForecastSeededIsReproducible(t *testing.T) {
	payload := forecastRequest{
		History: testutil.SampleHistory(),
		Parameters: forecast.Parameters{
			Periods:            4,
			GrowthRate:         5,
			ConfidenceInterval: 80,
			Method:             forecast.MethodExponential,
		},
		Seed: 7,
	}
	handler := newTestHandler()

	var first, second forecastResponse
	for _, dst := range []*forecastResponse{&first, &second} {
		rr := performJSON(t, handler, payload, "/api/forecast")
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	for i := range first.Points {
		if first.Points[i].ForecastRevenue != second.Points[i].ForecastRevenue {
			t.Errorf("point %d diverged: %v != %v", i, first.Points[i].ForecastRevenue, second.Points[i].ForecastRevenue)
		}
	}
	if first.Seed != 7 {
		t.Errorf("expected seed echoed back, got %d", first.Seed)
	}
}

func TestHandleForecastErrors(t *testing.T) {
	tests := []struct {
		name     string
		payload  forecastRequest
		contains string
	}{
		{
			name: "Unknown method",
			payload: forecastRequest{
				History:    testutil.SampleHistory(),
				Parameters: forecast.Parameters{Periods: 2, Method: "quadratic"},
			},
			contains: "unknown forecast method",
		},
		{
			name:     "No anchor",
			payload:  forecastRequest{Parameters: forecast.Parameters{Periods: 2, Method: forecast.MethodLinear}},
			contains: forecast.ErrNoAnchor.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performJSON(t, newTestHandler(), tt.payload, "/api/forecast")

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rr.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if !strings.Contains(resp["error"], tt.contains) {
				t.Fatalf("expected error containing %q, got %q", tt.contains, resp["error"])
			}
		})
	}
}

func TestHandleForecastPeriodsLimit(t *testing.T) {
	tests := []struct {
		name    string
		periods int
		status  int
	}{
		{name: "At limit", periods: constants.MaxForecastPeriods, status: http.StatusOK},
		{name: "Above limit", periods: constants.MaxForecastPeriods + 1, status: http.StatusBadRequest},
		{name: "Huge", periods: 1000000000, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := forecastRequest{
				History:    testutil.SampleHistory(),
				Parameters: forecast.Parameters{Periods: tt.periods, GrowthRate: 5, ConfidenceInterval: 80, Method: forecast.MethodLinear},
			}
			rr := performJSON(t, newTestHandler(), payload, "/api/forecast")

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
			if tt.status == http.StatusBadRequest && !strings.Contains(rr.Body.String(), "exceeds limit") {
				t.Fatalf("expected periods limit error, got %q", rr.Body.String())
			}
		})
	}
}

func TestHandleValuationNonFiniteResult(t *testing.T) {
	payload := valuationRequest{
		Valuation:    valuation.Inputs{MarketCap: 1e308},
		BalanceSheet: statements.BalanceSheetSnapshot{TotalEquity: 1e-10},
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/valuation")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] != "failed to encode response" {
		t.Fatalf("expected encode error, got %q", resp["error"])
	}
}

func TestHandlePayrollRaise(t *testing.T) {
	payload := payrollRaiseRequest{
		Employees: []payroll.Employee{
			{ID: 1, Name: "Budi", Type: payroll.FullTime, CurrentSalary: 12000000},
			{ID: 2, Name: "Sari", Type: payroll.FullTime, CurrentSalary: 7200000},
		},
		SalaryHistory: []payroll.SalaryRecord{
			{EmployeeID: 2, Amount: 7200000, StartDate: "2024-03-01"},
		},
		EmployeeID: 2,
		Amount:     8000000,
		StartDate:  "2024-09-01",
	}
	rr := performJSON(t, newTestHandler(), payload, "/api/payroll/raise")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp payrollRaiseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Summary.TotalMonthly != 20000000 {
		t.Errorf("expected total payroll 20000000, got %v", resp.Summary.TotalMonthly)
	}
	if len(resp.SalaryHistory) != 2 {
		t.Fatalf("expected 2 salary records, got %d", len(resp.SalaryHistory))
	}
	if resp.SalaryHistory[0].EndDate != "2024-09-01" || resp.SalaryHistory[1].Amount != 8000000 {
		t.Errorf("unexpected salary history %+v", resp.SalaryHistory)
	}
}

func TestHandlePayrollRaiseErrors(t *testing.T) {
	tests := []struct {
		name      string
		id        int
		startDate string
		status    int
	}{
		{name: "Unknown employee", id: 9, startDate: "2024-09-01", status: http.StatusNotFound},
		{name: "Invalid date", id: 1, startDate: "Sep 2024", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := payrollRaiseRequest{
				Employees:  []payroll.Employee{{ID: 1, Name: "Budi", CurrentSalary: 12000000}},
				EmployeeID: tt.id,
				Amount:     13000000,
				StartDate:  tt.startDate,
			}
			rr := performJSON(t, newTestHandler(), payload, "/api/payroll/raise")

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleJSONMalformed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/ratios", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.HasPrefix(resp["error"], "failed to decode request") {
		t.Fatalf("expected decode error, got %q", resp["error"])
	}
}

func TestHandleAnalysisSuccess(t *testing.T) {
	configPath := filepath.Join("..", "..", "test", "workbook.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read test workbook: %v", err)
	}

	rr := performUpload(t, newTestHandler(), string(data), "workbook.yaml")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp analysisResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Report.RunID == "" {
		t.Fatal("expected run id in response")
	}
	if len(resp.Report.Forecast) == 0 {
		t.Fatal("expected forecast points in response")
	}
	if !strings.HasPrefix(resp.CSV, "period,actual_revenue,forecast_revenue") {
		t.Fatalf("expected CSV data in response, got %q", resp.CSV)
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if resp.Report.Payroll.Headcount != 3 {
		t.Fatalf("expected payroll headcount 3, got %d", resp.Report.Payroll.Headcount)
	}
}

func TestHandleAnalysisMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rr := httptest.NewRecorder()

	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandleAnalysisUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test", nil)

	rr := performUpload(t, handler, strings.Repeat("a", 128), "workbook.yaml")

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", resp["error"])
	}
}

func TestHandleAnalysisMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] != "missing workbook file" {
		t.Fatalf("expected missing file error, got %q", resp["error"])
	}
}

func TestHandleAnalysisInvalidYAML(t *testing.T) {
	rr := performUpload(t, newTestHandler(), "performance: [", "workbook.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "error reading config data") {
		t.Fatalf("expected parse error message, got %q", resp["error"])
	}
}

func TestHandleAnalysisUnknownMethod(t *testing.T) {
	workbook := `
forecast:
  periods: 2
  method: quadratic
history:
  - period: Jan 2024
    revenue: 100
    expense: 80
`

	rr := performUpload(t, newTestHandler(), workbook, "workbook.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "unknown forecast method") {
		t.Fatalf("expected method error, got %q", resp["error"])
	}
}

func TestHandleAnalysisPeriodsLimit(t *testing.T) {
	workbook := `
forecast:
  periods: 100000000
history:
  - period: Jan 2024
    revenue: 100
    expense: 80
`

	rr := performUpload(t, newTestHandler(), workbook, "workbook.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "exceeds limit") {
		t.Fatalf("expected periods limit error, got %q", resp["error"])
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 0, "test", []string{"https://dashboard.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/ratios", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func performUpload(t *testing.T, handler http.Handler, content, filename string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func performJSON(t *testing.T, handler http.Handler, payload interface{}, path string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}
