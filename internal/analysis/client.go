// Package analysis consume el oraculo externo de analisis conductual
// como caja negra sobre HTTP.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Analyzer define la interfaz hacia el oraculo de clasificacion.
type Analyzer interface {
	AnalyzeBehavior(ctx context.Context, req BehaviorRequest) (BehaviorResult, error)
}

// BehaviorRequest replica el contrato del servicio de analisis.
type BehaviorRequest struct {
	AssessmentType    string            `json:"assessmentType"`
	Responses         []string          `json:"responses"`
	TimingData        TimingData        `json:"timingData"`
	BehavioralMetrics BehavioralMetrics `json:"behavioralMetrics"`
}

type TimingData struct {
	TotalTime              int     `json:"totalTime"`
	AverageTimePerQuestion float64 `json:"averageTimePerQuestion"`
	TimeDistribution       []int   `json:"timeDistribution"`
}

type BehavioralMetrics struct {
	HesitationPatterns []int `json:"hesitationPatterns"`
	ChangesMade        int   `json:"changesMade"`
	ConfidenceLevels   []int `json:"confidenceLevels"`
}

type ClassifiedResponse struct {
	Response string  `json:"response"`
	TopLabel string  `json:"top_label"`
	Score    float64 `json:"score"`
}

type BehaviorResult struct {
	AssessmentType      string               `json:"assessmentType"`
	ClassifiedResponses []ClassifiedResponse `json:"classifiedResponses"`
}

// HTTPClient implementa Analyzer contra el servicio remoto.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *HTTPClient) AnalyzeBehavior(ctx context.Context, reqBody BehaviorRequest) (BehaviorResult, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return BehaviorResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-behavior", bytes.NewReader(bodyBytes))
	if err != nil {
		return BehaviorResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return BehaviorResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return BehaviorResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return BehaviorResult{}, fmt.Errorf("analysis http error: status=%d", resp.StatusCode)
	}

	var result BehaviorResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return BehaviorResult{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return result, nil
}
