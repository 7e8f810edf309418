// Package storetest provides in-memory metadata and object stores with
// call counting and error injection for tests.
package storetest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forecastapp/api/internal/client"
	"github.com/forecastapp/api/internal/model"
	"github.com/forecastapp/api/internal/repository"
)

// Memory is an in-memory metadata store. Set Fail[method] to make that
// method return the error, or FailOnce[method] to fail only its next call.
type Memory struct {
	mu sync.Mutex

	Unconfigured bool
	Fail         map[string]error
	FailOnce     map[string]error
	Calls        map[string]int

	Locations map[string]string
	uploads   map[string]*model.UploadRecord
	jobs      map[string]*model.JobRecord
	results   []*model.ResultRecord
	history   map[string][]model.UploadStatus
}

func NewMemory() *Memory {
	return &Memory{
		Fail:      map[string]error{},
		FailOnce:  map[string]error{},
		Calls:     map[string]int{},
		Locations: map[string]string{},
		uploads:   map[string]*model.UploadRecord{},
		jobs:      map[string]*model.JobRecord{},
		history:   map[string][]model.UploadStatus{},
	}
}

func (m *Memory) call(method string) error {
	m.Calls[method]++
	if err, ok := m.FailOnce[method]; ok {
		delete(m.FailOnce, method)
		return err
	}
	return m.Fail[method]
}

// CallCount returns how many times method was invoked.
func (m *Memory) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// Inserts counts every insert across tables.
func (m *Memory) Inserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls["InsertUpload"] + m.Calls["InsertJob"] + m.Calls["InsertResult"]
}

// History returns every status written for an upload, in order.
func (m *Memory) History(id string) []model.UploadStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.UploadStatus(nil), m.history[id]...)
}

// Results returns every stored result.
func (m *Memory) Results() []*model.ResultRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.ResultRecord(nil), m.results...)
}

func (m *Memory) IsConfigured() bool { return !m.Unconfigured }

func (m *Memory) LocationName(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("LocationName"); err != nil {
		return "", err
	}
	name, ok := m.Locations[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return name, nil
}

func (m *Memory) InsertUpload(_ context.Context, rec *model.UploadRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertUpload"); err != nil {
		return "", err
	}
	cp := *rec
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.uploads[cp.ID] = &cp
	m.history[cp.ID] = append(m.history[cp.ID], cp.Status)
	return cp.ID, nil
}

func (m *Memory) UpdateUpload(_ context.Context, id string, patch model.UploadPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateUpload"); err != nil {
		return err
	}
	rec, ok := m.uploads[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Status != nil {
		rec.Status = *patch.Status
		m.history[id] = append(m.history[id], *patch.Status)
	}
	if patch.ProcessingResult != nil {
		rec.ProcessingResult = patch.ProcessingResult
	}
	if patch.Error != nil {
		rec.Error = patch.Error
	}
	return nil
}

func (m *Memory) ListUploads(context.Context) ([]*model.UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListUploads"); err != nil {
		return nil, err
	}
	out := make([]*model.UploadRecord, 0, len(m.uploads))
	for _, rec := range m.uploads {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Memory) GetUpload(_ context.Context, id string) (*model.UploadRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetUpload"); err != nil {
		return nil, err
	}
	rec, ok := m.uploads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) InsertJob(_ context.Context, job *model.JobRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertJob"); err != nil {
		return "", err
	}
	cp := *job
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	m.jobs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *Memory) UpdateJob(_ context.Context, id string, patch model.JobPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateJob"); err != nil {
		return err
	}
	job, ok := m.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.CompletedAt != nil {
		at := *patch.CompletedAt
		job.CompletedAt = &at
	}
	return nil
}

func (m *Memory) GetJob(_ context.Context, id string) (*model.JobRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetJob"); err != nil {
		return nil, err
	}
	job, ok := m.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *Memory) InsertResult(_ context.Context, res *model.ResultRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertResult"); err != nil {
		return "", err
	}
	cp := *res
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	m.results = append(m.results, &cp)
	return cp.ID, nil
}

func (m *Memory) GetResult(_ context.Context, jobID string) (*model.ResultRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("GetResult"); err != nil {
		return nil, err
	}
	for i := len(m.results) - 1; i >= 0; i-- {
		if m.results[i].JobID == jobID {
			cp := *m.results[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Memory) ListResultsByUpload(_ context.Context, uploadID string) ([]*model.ResultRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListResultsByUpload"); err != nil {
		return nil, err
	}
	out := []*model.ResultRecord{}
	for _, res := range m.results {
		if res.UploadID != nil && *res.UploadID == uploadID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Objects is an in-memory object store.
type Objects struct {
	mu sync.Mutex

	Bucket       string
	Unconfigured bool
	Err          error
	Puts         int
	Data         map[string][]byte
}

func NewObjects() *Objects {
	return &Objects{Bucket: "test-bucket", Data: map[string][]byte{}}
}

var _ client.ObjectStore = (*Objects)(nil)

func (o *Objects) Put(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Puts++
	if o.Err != nil {
		return "", o.Err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	o.Data[key] = data
	return "mem://" + o.Bucket + "/" + key, nil
}

func (o *Objects) IsConfigured() bool { return !o.Unconfigured }

func (o *Objects) Name() string { return "memory" }
