package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"milhier/internal/models"
)

const fallbackAnalysisMessage = "Automated analysis unavailable. Review the source reports manually."

// LLMService handles interaction with the Language Model
type LLMService struct {
	baseURL   string
	model     string
	enabled   bool
	reportCap int
	client    *http.Client
}

// NewLLMService creates a new LLM service
func NewLLMService(baseURL, model string, enabled bool, timeout time.Duration, reportCap int) *LLMService {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if reportCap <= 0 {
		reportCap = 20
	}
	return &LLMService{
		baseURL:   baseURL,
		model:     model,
		enabled:   enabled,
		reportCap: reportCap,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// SummarizeReports produces a tactical summary of the given reports. Reports
// are expected most recent first; only the first reportCap are sent to the
// model. Any transport or model failure degrades to a fallback message rather
// than an error, so callers always get a usable response; the second return
// reports whether the fallback was used.
func (s *LLMService) SummarizeReports(unitName string, reports []models.Report) (string, bool) {
	if len(reports) == 0 {
		return "No reports available for analysis.", false
	}

	if !s.enabled {
		return fallbackAnalysisMessage, true
	}

	if len(reports) > s.reportCap {
		reports = reports[:s.reportCap]
	}

	prompt := s.buildPrompt(unitName, reports)

	reqBody := ollamaRequest{
		Model:  s.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		slog.Error("Failed to marshal LLM request", "error", err)
		return fallbackAnalysisMessage, true
	}

	resp, err := s.client.Post(fmt.Sprintf("%s/api/generate", s.baseURL), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Error("LLM service unreachable", "error", err)
		return fallbackAnalysisMessage, true
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("LLM service returned non-200 status", "status", resp.StatusCode, "body", string(bodyBytes))

		// If model not found, try to pull it
		if resp.StatusCode == http.StatusNotFound && strings.Contains(string(bodyBytes), "model") {
			go s.PullModel()
		}

		return fallbackAnalysisMessage, true
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		slog.Error("Failed to decode LLM response", "error", err)
		return fallbackAnalysisMessage, true
	}

	return strings.TrimSpace(ollamaResp.Response), false
}

func (s *LLMService) buildPrompt(unitName string, reports []models.Report) string {
	var sb strings.Builder
	sb.WriteString("You are a military operations officer assistant. ")
	sb.WriteString(fmt.Sprintf("Summarize the following battlefield reports from %s and its subordinate units. ", unitName))
	sb.WriteString("Identify the overall situation, notable threats, and anything requiring command attention. ")
	sb.WriteString("Be concise and factual. Respond ONLY with the summary text.\n\n")

	for i, r := range reports {
		sb.WriteString(fmt.Sprintf("Report %d [%s] from %s at %s:\n%s\n\n",
			i+1, r.ReportType, r.SoldierName, r.Timestamp.Format(time.RFC3339), r.StructuredJSON))
	}

	return sb.String()
}

// PullModel triggers a model pull
func (s *LLMService) PullModel() {
	slog.Info("Attempting to pull LLM model", "model", s.model)

	reqBody := map[string]string{
		"name": s.model,
	}
	jsonData, _ := json.Marshal(reqBody)

	resp, err := s.client.Post(fmt.Sprintf("%s/api/pull", s.baseURL), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Error("Failed to trigger model pull", "error", err)
		return
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Error("Failed to close response body", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		slog.Error("Failed to pull model", "status", resp.StatusCode, "body", string(bodyBytes))
		return
	}

	slog.Info("Model pull triggered successfully", "model", s.model)
}
