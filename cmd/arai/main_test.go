package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"arai/internal/ai"
	"arai/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env", filepath.Join(t.TempDir(), "missing.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanMarkdown(t *testing.T) {
	out, err := runCLI(t, "plan", "--brand", "Cocoa Co", "--goal", "brand awareness", "--budget", "60000", "--format", "markdown")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# AR.AI Strategy Generated for Cocoa Co"))
	assert.Contains(t, out, "1. Awareness")
	assert.Contains(t, out, "**YouTube:** 15,000.00")
}

func TestPlanJSON(t *testing.T) {
	out, err := runCLI(t, "plan", "-b", "Cocoa Co", "-k", model.KPICAC, "--budget", "1000", "-f", "json")
	require.NoError(t, err)

	var got struct {
		Headline    string             `json:"headline"`
		KPIs        []string           `json:"kpis"`
		Allocations []model.Allocation `json:"allocations"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "AR.AI Strategy Generated for Cocoa Co", got.Headline)
	assert.Equal(t, []string{model.KPICAC}, got.KPIs)
	assert.Equal(t, []model.Allocation{
		{Channel: "Instagram", Amount: 500},
		{Channel: "Google Search", Amount: 500},
	}, got.Allocations)
}

func TestPlanCSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.csv")
	_, err := runCLI(t, "plan", "--brand", "Cocoa Co", "--budget", "100", "--format", "csv", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "channel,amount\nInstagram,50.00\nGoogle Search,50.00\nTotal,100.00\n", string(data))
}

func TestPlanCSVWithoutBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "budget.csv")
	_, err := runCLI(t, "plan", "--brand", "Cocoa Co", "--format", "csv", "--out", path)
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestPlanPDFToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	_, err := runCLI(t, "plan", "--brand", "Cocoa Co", "--format", "pdf", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestPlanTerminal(t *testing.T) {
	out, err := runCLI(t, "plan", "--brand", "Cocoa Co")
	require.NoError(t, err)
	assert.Contains(t, out, "Cocoa Co")
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "missing brand", args: []string{"plan"}, want: model.ErrMissingBrand},
		{name: "unknown goal", args: []string{"plan", "-b", "Cocoa Co", "-g", "Fame"}, want: model.ErrInvalidGoal},
		{name: "negative budget", args: []string{"plan", "-b", "Cocoa Co", "--budget=-5"}, want: model.ErrNegativeBudget},
		{name: "NaN budget", args: []string{"plan", "-b", "Cocoa Co", "--budget", "NaN"}, want: model.ErrInvalidBudget},
		{name: "budget above maximum", args: []string{"plan", "-b", "Cocoa Co", "--budget", "1e17"}, want: model.ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := runCLI(t, "plan", "-b", "Cocoa Co", "-f", "docx")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestGoals(t *testing.T) {
	out, err := runCLI(t, "goals")
	require.NoError(t, err)
	assert.Contains(t, out, "Brand Awareness: Impressions, Reach, Engagement Rate\n")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestGenerateNotConfigured(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := runCLI(t, "generate", "--brand", "Cocoa Co")
	assert.True(t, errors.Is(err, ai.ErrNotConfigured))
}

func TestGenerateWithRefine(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "answer " + string(rune('0'+n))}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)
	t.Setenv("LLM_MAX_RETRIES", "0")

	out, err := runCLI(t, "generate", "--brand", "Cocoa Co", "--format", "markdown", "--refine", "shorter please")
	require.NoError(t, err)

	// strategy, content calendar and one refinement; no budget means no rationale
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, out, "## Marketing Strategy\n\nanswer 1")
	assert.Contains(t, out, "## Refinement: shorter please\n\nanswer 3")
}

func TestGenerateFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	_, err := runCLI(t, "generate", "--brand", "Cocoa Co", "--format", "markdown")
	assert.True(t, errors.Is(err, ai.ErrRequestFailed))
}
