package service

import (
	"context"

	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/model"
)

// Pinger reports live reachability of a dependency.
type Pinger interface {
	Ready(ctx context.Context) bool
}

// ServiceStatus is the per-dependency availability map.
type ServiceStatus struct {
	MetadataStore         string `json:"metadataStore"`
	ObjectStore           string `json:"objectStore"`
	ExternalProcessingURL string `json:"externalProcessingUrl"`
}

// HealthService answers liveness and dependency availability.
type HealthService struct {
	store     MetadataStore
	objects   client.ObjectStore
	processor client.Processor
	db        Pinger
}

// NewHealthService creates a health reporter. db may be nil, in which case
// the store is reported by configuration only.
func NewHealthService(store MetadataStore, objects client.ObjectStore, processor client.Processor, db Pinger) *HealthService {
	return &HealthService{store: store, objects: objects, processor: processor, db: db}
}

// ProcessingURL returns the configured ML service base url.
func (s *HealthService) ProcessingURL() string {
	if s.processor == nil {
		return ""
	}
	return s.processor.BaseURL()
}

// Services reports which dependencies are usable.
func (s *HealthService) Services(ctx context.Context) *ServiceStatus {
	storeOK := storeReady(s.store)
	if storeOK && s.db != nil {
		storeOK = s.db.Ready(ctx)
	}
	return &ServiceStatus{
		MetadataStore:         availability(storeOK),
		ObjectStore:           availability(s.objects != nil && s.objects.IsConfigured()),
		ExternalProcessingURL: s.ProcessingURL(),
	}
}

func availability(ok bool) string {
	if ok {
		return model.Available
	}
	return model.Unavailable
}
