package tokenmetrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"

	"tmbot/clients"
	"tmbot/core"
	"tmbot/models"
)

// maxErrorBodyBytes bounds how much of an error response ends up in a diagnostic
const maxErrorBodyBytes = 2048

// maxResponseBodyBytes bounds a successful response; a limit=1 answer is a few hundred bytes
const maxResponseBodyBytes = 1 << 20

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TokenMetricsClient implements the clients.TokenMetricsClient interface
type TokenMetricsClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// NewTokenMetricsClient creates a client for the trader-grades endpoint
func NewTokenMetricsClient(httpClient *http.Client, apiURL, apiKey string) clients.TokenMetricsClient {
	return &TokenMetricsClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// traderGradesResponse uses a pointer so a missing or null "data" is distinguishable from []
type traderGradesResponse struct {
	Data *[]traderGradeRow `json:"data"`
}

type traderGradeRow struct {
	TraderGrade  *float64 `json:"TM_TRADER_GRADE"`
	TAGrade      *float64 `json:"TA_GRADE"`
	QuantGrade   *float64 `json:"QUANT_GRADE"`
	PctChange24h *float64 `json:"TM_TRADER_GRADE_24H_PCT_CHANGE"`
	TokenName    *string  `json:"TOKEN_NAME"`
	Date         *string  `json:"DATE"`
}

// GetTraderGrades performs a single GET against the trader-grades endpoint. There is no retry.
func (c *TokenMetricsClient) GetTraderGrades(
	ctx context.Context,
	query models.GradeQuery,
) ([]models.GradeRecord, error) {
	endpoint, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid trader grades URL: %w", err)
	}

	params := endpoint.Query()
	params.Set("symbol", strings.ToUpper(query.Symbol))
	params.Set("limit", strconv.Itoa(query.Limit))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create trader grades request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &core.ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes+1))
	if err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("failed to read trader grades body: %w", err)}
	}
	if len(body) > maxResponseBodyBytes {
		return nil, &core.ProviderError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("trader grades response exceeds %d bytes", maxResponseBodyBytes),
		}
	}

	var parsed traderGradesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &core.ProviderError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode trader grades response: %w", err),
		}
	}
	if parsed.Data == nil {
		return nil, &core.ProviderError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("trader grades response has no data array"),
		}
	}

	records := make([]models.GradeRecord, 0, len(*parsed.Data))
	for _, row := range *parsed.Data {
		records = append(records, row.toGradeRecord())
	}
	return records, nil
}

func (r traderGradeRow) toGradeRecord() models.GradeRecord {
	return models.GradeRecord{
		TraderGrade:  mo.PointerToOption(r.TraderGrade),
		TAGrade:      mo.PointerToOption(r.TAGrade),
		QuantGrade:   mo.PointerToOption(r.QuantGrade),
		PctChange24h: mo.PointerToOption(r.PctChange24h),
		TokenName:    nonEmpty(r.TokenName),
		Date:         parseDate(r.Date),
	}
}

func nonEmpty(value *string) mo.Option[string] {
	if value == nil || *value == "" {
		return mo.None[string]()
	}
	return mo.Some(*value)
}

// parseDate treats an unparseable date the same as a missing one
func parseDate(value *string) mo.Option[time.Time] {
	if value == nil || *value == "" {
		return mo.None[time.Time]()
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, *value); err == nil {
			return mo.Some(parsed)
		}
	}
	return mo.None[time.Time]()
}
