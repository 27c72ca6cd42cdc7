package service_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhier/internal/models"
	"milhier/internal/service"
)

func sampleReports(n int) []models.Report {
	reports := make([]models.Report, n)
	for i := range reports {
		reports[i] = models.Report{
			ReportID:       fmt.Sprintf("r-%d", i),
			ReportType:     models.ReportTypeSITREP,
			StructuredJSON: fmt.Sprintf(`{"seq": %d}`, i),
			SoldierName:    "Reyes",
			Timestamp:      time.Now(),
		}
	}
	return reports
}

func TestSummarizeReports(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]any{"response": " Situation stable. ", "done": true})
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "llama3", true, 5*time.Second, 20)
	summary, degraded := svc.SummarizeReports("1st Platoon", sampleReports(2))
	assert.False(t, degraded)
	assert.Equal(t, "Situation stable.", summary)
	assert.Contains(t, gotPrompt, "1st Platoon")
	assert.Contains(t, gotPrompt, `{"seq": 0}`)
}

func TestSummarizeReportsCapsReportCount(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "llama3", true, 5*time.Second, 3)
	_, degraded := svc.SummarizeReports("1st Platoon", sampleReports(10))
	assert.False(t, degraded)

	// Only the first three reports are forwarded
	assert.Equal(t, 3, strings.Count(gotPrompt, "Report "))
	assert.Contains(t, gotPrompt, `{"seq": 2}`)
	assert.NotContains(t, gotPrompt, `{"seq": 3}`)
}

func TestSummarizeReportsFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := service.NewLLMService(server.URL, "llama3", true, 5*time.Second, 20)
	summary, degraded := svc.SummarizeReports("1st Platoon", sampleReports(1))
	assert.True(t, degraded, "model failure must degrade, not error")
	assert.Contains(t, summary, "unavailable")
}

func TestSummarizeReportsFallbackOnUnreachable(t *testing.T) {
	svc := service.NewLLMService("http://127.0.0.1:1", "llama3", true, time.Second, 20)
	summary, degraded := svc.SummarizeReports("1st Platoon", sampleReports(1))
	assert.True(t, degraded)
	assert.Contains(t, summary, "unavailable")
}

func TestSummarizeReportsDisabled(t *testing.T) {
	svc := service.NewLLMService("http://127.0.0.1:1", "llama3", false, time.Second, 20)
	summary, degraded := svc.SummarizeReports("1st Platoon", sampleReports(1))
	assert.True(t, degraded)
	assert.Contains(t, summary, "unavailable")
}

func TestSummarizeReportsEmpty(t *testing.T) {
	svc := service.NewLLMService("http://127.0.0.1:1", "llama3", true, time.Second, 20)
	summary, degraded := svc.SummarizeReports("1st Platoon", nil)
	assert.False(t, degraded)
	assert.Equal(t, "No reports available for analysis.", summary)
}
