package lifeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lukietee/LifeLine/pkg/metrics"
)

const DefaultAPIBase = "http://127.0.0.1:8000"

const defaultRequestTimeout = 30 * time.Second

// Severity values the service uses by convention. Only SeverityHigh is
// treated specially by the dashboard filter, and the comparison is
// case-sensitive: a record carrying "High" does not count as high.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// TypeFilterAll is the reserved category sentinel meaning "no type filter".
const TypeFilterAll = "all"

// EmergencyTypes are the categories the triage model is prompted to emit.
// Records with no category display and filter as "other".
var EmergencyTypes = []string{"fire", "medical", "crime", "traffic", "other"}

// IncidentServiceInterface defines the calls the dashboard makes against the
// Lifeline API, and makes it easy to mock them in tests
type IncidentServiceInterface interface {
	ListIncidentsWithContext(ctx context.Context) ([]Incident, error)
	AnalyzeWithContext(ctx context.Context, transcript string) error
	GetHealthWithContext(ctx context.Context) (*Health, error)
}

// IncidentService implements IncidentServiceInterface and is used for all the
// Lifeline API calls. This allows mocking calls that would usually hit the
// HTTP endpoints
type IncidentService interface {
	IncidentServiceInterface
}

// Config holds the client used for all Lifeline API calls and the resolved
// API base it was constructed with
type Config struct {
	Client  IncidentService
	APIBase string
}

func NewConfig(apiBase string) (*Config, error) {
	var c Config

	client, err := newClient(apiBase)
	if err != nil {
		return &c, fmt.Errorf("lifeline.NewConfig(): failed to create client for `%v`: %v", apiBase, err)
	}

	c.Client = client
	c.APIBase = apiBase

	return &c, nil
}

// ID is an opaque incident identifier. The service assigns integers, but the
// field is untyped on the wire, so both JSON numbers and strings are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("lifeline.ID: cannot unmarshal %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// Incident is one record describing a reported emergency event, as returned
// by the service. Every field is optional on the wire; the Display* methods
// apply the dashboard's fallback values.
type Incident struct {
	ID             ID     `json:"id,omitempty"`
	Summary        string `json:"summary,omitempty"`
	EmergencyType  string `json:"emergency_type,omitempty"`
	PeopleInvolved *int   `json:"people_involved,omitempty"`
	Severity       string `json:"severity,omitempty"`
	Location       string `json:"location,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}

func (i Incident) DisplayID() string {
	if i.ID == "" {
		return "?"
	}
	return string(i.ID)
}

func (i Incident) DisplaySummary() string {
	if i.Summary == "" {
		return "(no summary)"
	}
	return i.Summary
}

// Type returns the incident category, defaulting to "other". The type filter
// compares against this value, so uncategorized records match "other".
func (i Incident) Type() string {
	if i.EmergencyType == "" {
		return "other"
	}
	return i.EmergencyType
}

func (i Incident) DisplaySeverity() string {
	if i.Severity == "" {
		return SeverityMedium
	}
	return i.Severity
}

func (i Incident) DisplayLocation() string {
	if i.Location == "" {
		return "unknown"
	}
	return i.Location
}

func (i Incident) DisplayPeople() string {
	if i.PeopleInvolved == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *i.PeopleInvolved)
}

// Health is the service's connectivity/mode report from GET /health
type Health struct {
	OK   bool   `json:"ok"`
	Mode string `json:"mode"`
}

// StatusError is returned when GET /incidents answers with a non-2xx status.
// The message format is the one the dashboard displays verbatim.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Fetch failed %d", e.StatusCode)
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

// client is the HTTP implementation of IncidentService
type client struct {
	base *url.URL
	http *http.Client
}

func newClient(apiBase string) (*client, error) {
	base, err := url.Parse(apiBase)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base `%v` is not an absolute URL", apiBase)
	}

	return &client{
		base: base,
		http: &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

func (c *client) endpoint(path string) string {
	return c.base.JoinPath(path).String()
}

func (c *client) ListIncidentsWithContext(ctx context.Context) ([]Incident, error) {
	timer := metrics.NewRequestTimer("incidents")
	defer timer.ObserveDuration()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/incidents"), nil)
	if err != nil {
		return nil, err
	}
	// The browser dashboard fetched with caching disabled; keep intermediaries
	// from serving a stale list here too
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("incidents", metrics.ResultError).Inc()
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RequestsTotal.WithLabelValues("incidents", metrics.ResultError).Inc()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var incidents []Incident
	if err := json.NewDecoder(resp.Body).Decode(&incidents); err != nil {
		metrics.RequestsTotal.WithLabelValues("incidents", metrics.ResultError).Inc()
		return nil, err
	}

	metrics.RequestsTotal.WithLabelValues("incidents", metrics.ResultOK).Inc()
	return incidents, nil
}

// AnalyzeWithContext posts a transcript for server-side triage. The response
// body and any non-2xx status are deliberately ignored: the dashboard only
// cares whether the request reached the service, and re-fetches the incident
// list afterwards regardless of what the analysis returned.
func (c *client) AnalyzeWithContext(ctx context.Context, transcript string) error {
	timer := metrics.NewRequestTimer("analyze")
	defer timer.ObserveDuration()

	body, err := json.Marshal(analyzeRequest{Transcript: transcript})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/analyze"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("analyze", metrics.ResultError).Inc()
		return err
	}
	defer resp.Body.Close()       //nolint:errcheck
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	metrics.RequestsTotal.WithLabelValues("analyze", metrics.ResultOK).Inc()
	return nil
}

func (c *client) GetHealthWithContext(ctx context.Context) (*Health, error) {
	timer := metrics.NewRequestTimer("health")
	defer timer.ObserveDuration()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues("health", metrics.ResultError).Inc()
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RequestsTotal.WithLabelValues("health", metrics.ResultError).Inc()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		metrics.RequestsTotal.WithLabelValues("health", metrics.ResultError).Inc()
		return nil, err
	}

	metrics.RequestsTotal.WithLabelValues("health", metrics.ResultOK).Inc()
	return &h, nil
}

// GetIncidents retrieves the full incident list in the order the service
// returns it (oldest first). Display ordering is the caller's concern.
func GetIncidents(client IncidentService) ([]Incident, error) {
	var ctx = context.Background()

	i, err := client.ListIncidentsWithContext(ctx)
	if err != nil {
		return i, fmt.Errorf("lifeline.GetIncidents(): failed to get incidents: %v", err)
	}

	return i, nil
}

// Analyze submits a transcript for analysis. Only transport-level failures
// are reported; an HTTP error status from the service is not an error here.
func Analyze(client IncidentService, transcript string) error {
	var ctx = context.Background()

	err := client.AnalyzeWithContext(ctx, transcript)
	if err != nil {
		return fmt.Errorf("lifeline.Analyze(): failed to submit transcript: %v", err)
	}

	return nil
}

func GetHealth(client IncidentService) (*Health, error) {
	var ctx = context.Background()

	h, err := client.GetHealthWithContext(ctx)
	if err != nil {
		return h, fmt.Errorf("lifeline.GetHealth(): failed to get service health: %v", err)
	}

	return h, nil
}
