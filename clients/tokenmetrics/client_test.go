package tokenmetrics

import (
	"context"
	"net/http"
	"strings"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmbot/core"
	"tmbot/models"
)

func newTestClient(serverURL string) *TokenMetricsClient {
	return NewTokenMetricsClient(&http.Client{}, serverURL+"/v2/trader-grades", "test-api-key").(*TokenMetricsClient)
}

func TestTokenMetricsClient_GetTraderGrades_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/trader-grades", r.URL.Path)
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		assert.Equal(t, "BTC", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[{"TM_TRADER_GRADE":78,"TA_GRADE":65,"QUANT_GRADE":80,` +
			`"TM_TRADER_GRADE_24H_PCT_CHANGE":3.2,"TOKEN_NAME":"Bitcoin","DATE":"2024-01-01"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "BTC", Limit: 1})

	require.NoError(t, err)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, mo.Some(78.0), record.TraderGrade)
	assert.Equal(t, mo.Some(65.0), record.TAGrade)
	assert.Equal(t, mo.Some(80.0), record.QuantGrade)
	assert.Equal(t, mo.Some(3.2), record.PctChange24h)
	assert.Equal(t, mo.Some("Bitcoin"), record.TokenName)
	require.True(t, record.Date.IsPresent())
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Equal(record.Date.MustGet()))
}

func TestTokenMetricsClient_GetTraderGrades_UppercasesSymbol(t *testing.T) {
	var gotSymbol string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "eth", Limit: 1})

	require.NoError(t, err)
	assert.Equal(t, "ETH", gotSymbol)
}

func TestTokenMetricsClient_GetTraderGrades_AbsentAndNullFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"TM_TRADER_GRADE":0,"TA_GRADE":null,"TOKEN_NAME":"","DATE":"not a date"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "XYZ", Limit: 1})

	require.NoError(t, err)
	require.Len(t, records, 1)
	record := records[0]
	assert.Equal(t, mo.Some(0.0), record.TraderGrade, "zero is a value, not an absence")
	assert.True(t, record.TAGrade.IsAbsent())
	assert.True(t, record.QuantGrade.IsAbsent())
	assert.True(t, record.PctChange24h.IsAbsent())
	assert.True(t, record.TokenName.IsAbsent())
	assert.True(t, record.Date.IsAbsent())
}

func TestTokenMetricsClient_GetTraderGrades_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "NOPE", Limit: 1})

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestTokenMetricsClient_GetTraderGrades_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "BTC", Limit: 1})

	assert.Nil(t, records)
	providerErr, ok := core.IsProviderError(err)
	require.True(t, ok, "expected ProviderError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestTokenMetricsClient_GetTraderGrades_MalformedBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `invalid json response`},
		{name: "missing data", body: `{"success":true}`},
		{name: "null data", body: `{"data":null}`},
		{name: "data is not an array", body: `{"data":{"TOKEN_NAME":"Bitcoin"}}`},
		{name: "grade is a string", body: `{"data":[{"TM_TRADER_GRADE":"high"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "BTC", Limit: 1})

			assert.Nil(t, records)
			_, ok := core.IsProviderError(err)
			assert.True(t, ok, "expected ProviderError, got %v", err)
		})
	}
}

func TestTokenMetricsClient_GetTraderGrades_OversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data":[],"pad":"` + strings.Repeat("x", maxResponseBodyBytes) + `"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "BTC", Limit: 1})

	require.Error(t, err)
	assert.Nil(t, records)
	providerErr, ok := core.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, providerErr.StatusCode)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestTokenMetricsClient_GetTraderGrades_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	client := newTestClient(serverURL)
	records, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "BTC", Limit: 1})

	assert.Nil(t, records)
	_, ok := core.IsTransportError(err)
	assert.True(t, ok, "expected TransportError, got %v", err)
}

func TestTokenMetricsClient_GetTraderGrades_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewTokenMetricsClient(
		&http.Client{Timeout: 50 * time.Millisecond},
		server.URL+"/v2/trader-grades",
		"test-api-key",
	)
	_, err := client.GetTraderGrades(context.Background(), models.GradeQuery{Symbol: "ETH", Limit: 1})

	_, ok := core.IsTransportError(err)
	assert.True(t, ok, "expected TransportError, got %v", err)
}

func TestParseDate(t *testing.T) {
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name     string
		input    *string
		expected mo.Option[time.Time]
	}{
		{name: "nil", input: nil, expected: mo.None[time.Time]()},
		{name: "empty", input: ptr(""), expected: mo.None[time.Time]()},
		{name: "date only", input: ptr("2024-01-01"), expected: mo.Some(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
		{name: "rfc3339", input: ptr("2024-03-15T10:30:00Z"), expected: mo.Some(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC))},
		{name: "millis", input: ptr("2024-03-15T00:00:00.000Z"), expected: mo.Some(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
		{name: "garbage", input: ptr("yesterday"), expected: mo.None[time.Time]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.input)
			assert.Equal(t, tt.expected.IsPresent(), got.IsPresent())
			if tt.expected.IsPresent() {
				assert.True(t, tt.expected.MustGet().Equal(got.MustGet()))
			}
		})
	}
}
