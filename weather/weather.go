// Package weather fetches current conditions from the Open-Meteo forecast
// API and renders them as a short natural-language report.
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

var (
	ErrNetwork           = errors.New("weather network error")
	ErrMalformedResponse = errors.New("malformed weather response")
)

// MaxResponseSize bounds how much of a forecast response is read.
const MaxResponseSize = 256 << 10

const currentFields = "temperature_2m,weather_code,relative_humidity_2m,wind_speed_10m"

// Report is a snapshot of current conditions at a labeled location.
type Report struct {
	Label         string  `json:"label"`
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	ConditionCode int     `json:"condition_code"`
}

// Condition returns the phrase for the report's condition code.
func (r Report) Condition() string {
	return Describe(r.ConditionCode)
}

// String renders the report as a sentence suitable for prompt context.
func (r Report) String() string {
	return fmt.Sprintf(
		"Here's the weather in %s: It's currently %s°C with %s. The humidity is at %s%% and winds are blowing at %s km/h.",
		r.Label,
		formatNumber(r.Temperature),
		r.Condition(),
		formatNumber(r.Humidity),
		formatNumber(r.WindSpeed),
	)
}

// Client queries Open-Meteo.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout.Std()},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current fetches current conditions at the coordinates. Transport failures
// and non-2xx statuses wrap ErrNetwork; a body missing any required field
// wraps ErrMalformedResponse.
func (c *Client) Current(ctx context.Context, lat, lon float64, label string) (Report, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current", currentFields)
	q.Set("temperature_unit", "celsius")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Report{}, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if len(body) > MaxResponseSize {
		return Report{}, fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, MaxResponseSize)
	}

	return parse(body, label)
}

func parse(body []byte, label string) (Report, error) {
	if !gjson.ValidBytes(body) {
		return Report{}, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}

	current := gjson.GetBytes(body, "current")
	if !current.IsObject() {
		return Report{}, fmt.Errorf("%w: missing current block", ErrMalformedResponse)
	}

	names := [...]string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m", "weather_code"}
	var fields [len(names)]gjson.Result
	for i, name := range names {
		fields[i] = current.Get(name)
		if fields[i].Type != gjson.Number {
			return Report{}, fmt.Errorf("%w: %s is missing or not a number", ErrMalformedResponse, name)
		}
	}

	return Report{
		Label:         label,
		Temperature:   fields[0].Float(),
		Humidity:      fields[1].Float(),
		WindSpeed:     fields[2].Float(),
		ConditionCode: int(fields[3].Int()),
	}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
