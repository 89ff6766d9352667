package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/aria/core/config"
	"github.com/tailored-agentic-units/aria/weather"
)

func serve(t *testing.T, status int, body string) (*weather.Client, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r.Clone(r.Context())
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return weather.New(weather.Config{BaseURL: srv.URL, Timeout: config.Duration(time.Second)}), &captured
}

func TestCurrent(t *testing.T) {
	client, req := serve(t, http.StatusOK, `{
		"latitude": 43.65,
		"current": {
			"temperature_2m": 21.5,
			"relative_humidity_2m": 60,
			"wind_speed_10m": 12.3,
			"weather_code": 2
		}
	}`)

	report, err := client.Current(context.Background(), 43.6532, -79.3832, "Toronto")
	require.NoError(t, err)

	assert.Equal(t, weather.Report{
		Label:         "Toronto",
		Temperature:   21.5,
		Humidity:      60,
		WindSpeed:     12.3,
		ConditionCode: 2,
	}, report)
	assert.Equal(t,
		"Here's the weather in Toronto: It's currently 21.5°C with partly cloudy. The humidity is at 60% and winds are blowing at 12.3 km/h.",
		report.String(),
	)

	q := req.URL.Query()
	assert.Equal(t, "43.6532", q.Get("latitude"))
	assert.Equal(t, "-79.3832", q.Get("longitude"))
	assert.Contains(t, q.Get("current"), "weather_code")
}

func TestCurrent_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: weather.ErrNetwork},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, wantErr: weather.ErrNetwork},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: weather.ErrMalformedResponse},
		{name: "missing current", status: http.StatusOK, body: `{"latitude": 1}`, wantErr: weather.ErrMalformedResponse},
		{
			name:    "missing field",
			status:  http.StatusOK,
			body:    `{"current": {"temperature_2m": 1, "relative_humidity_2m": 2, "wind_speed_10m": 3}}`,
			wantErr: weather.ErrMalformedResponse,
		},
		{
			name:    "string field",
			status:  http.StatusOK,
			body:    `{"current": {"temperature_2m": "hot", "relative_humidity_2m": 2, "wind_speed_10m": 3, "weather_code": 0}}`,
			wantErr: weather.ErrMalformedResponse,
		},
		{
			name:    "oversized body",
			status:  http.StatusOK,
			body:    `{"current": {"temperature_2m": 1, "relative_humidity_2m": 2, "wind_speed_10m": 3, "weather_code": 0}, "pad": "` + strings.Repeat("x", weather.MaxResponseSize) + `"}`,
			wantErr: weather.ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := serve(t, tt.status, tt.body)
			_, err := client.Current(context.Background(), 0, 0, "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCurrent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := weather.New(weather.Config{BaseURL: url, Timeout: config.Duration(time.Second)})
	_, err := client.Current(context.Background(), 0, 0, "x")
	assert.ErrorIs(t, err, weather.ErrNetwork)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear skies"},
		{3, "overcast"},
		{65, "heavy rain"},
		{99, "thunderstorm with heavy hail"},
		{4, weather.DefaultCondition},
		{-1, "variable conditions"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, weather.Describe(tt.code), "code %d", tt.code)
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := weather.DefaultConfig()
	cfg.Merge(&weather.Config{BaseURL: "http://localhost:1"})

	assert.Equal(t, "http://localhost:1", cfg.BaseURL)
	assert.Equal(t, config.Duration(10*time.Second), cfg.Timeout)
}
