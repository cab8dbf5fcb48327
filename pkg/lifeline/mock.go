package lifeline

import (
	"context"
	"fmt"
)

var ErrMockError = fmt.Errorf("lifeline.Mock(): mock error") // Used to mock errors in unit tests

// errTranscript signals the mock to fail the analyze call
const errTranscript = "err"

// MockIncidentService is a canned IncidentService for unit tests. Incidents
// are returned in service order (oldest first) unless Err is set.
type MockIncidentService struct {
	IncidentService

	Incidents []Incident
	Health    Health
	Err       error
}

func (m *MockIncidentService) ListIncidentsWithContext(ctx context.Context) ([]Incident, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Incidents, nil
}

func (m *MockIncidentService) AnalyzeWithContext(ctx context.Context, transcript string) error {
	// Provided so we can mock network-level failures for unit tests
	if transcript == errTranscript {
		return ErrMockError
	}
	if m.Err != nil {
		return m.Err
	}
	return nil
}

func (m *MockIncidentService) GetHealthWithContext(ctx context.Context) (*Health, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	h := m.Health
	return &h, nil
}
