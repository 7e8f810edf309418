package service

import (
	"context"
	"sync"

	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/model"
)

// stubProcessor records requests and answers with a fixed payload or error.
type stubProcessor struct {
	mu           sync.Mutex
	payload      model.Payload
	err          error
	unconfigured bool
	fileCalls    []*client.ProcessFileRequest
	forecasts    int
}

func (p *stubProcessor) ProcessFile(_ context.Context, req *client.ProcessFileRequest) (model.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileCalls = append(p.fileCalls, req)
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func (p *stubProcessor) Forecast(context.Context, *model.ForecastRequest) (model.Payload, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forecasts++
	if p.err != nil {
		return nil, p.err
	}
	return p.payload, nil
}

func (p *stubProcessor) IsConfigured() bool { return !p.unconfigured }

func (p *stubProcessor) BaseURL() string { return "http://ml.test" }
