package service

import (
	"context"
	"encoding/json"
	"time"
)

type collectionReader interface {
	Driver() string
	Load(ctx context.Context, collection string, dest interface{}) error
}

// SystemService answers the info, liveness and readiness probes.
type SystemService struct {
	store       collectionReader
	metrics     *MetricsService
	collections []string
	startedAt   time.Time
}

// ServiceInfo is the payload of the root endpoint.
type ServiceInfo struct {
	Message   string            `json:"message"`
	Driver    string            `json:"driver"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthStatus is the payload of the liveness probe.
type HealthStatus struct {
	Status  string          `json:"status"`
	Uptime  string          `json:"uptime"`
	Driver  string          `json:"driver"`
	Metrics MetricsSnapshot `json:"metrics"`
}

// NewSystemService constructs a SystemService. Readiness loads every listed collection.
func NewSystemService(store collectionReader, metrics *MetricsService, collections []string) *SystemService {
	return &SystemService{store: store, metrics: metrics, collections: collections, startedAt: time.Now()}
}

// Info describes the API.
func (s *SystemService) Info() ServiceInfo {
	return ServiceInfo{
		Message: "Tutor center backend is running",
		Driver:  s.store.Driver(),
		Endpoints: map[string]string{
			"login":         "/auth/login",
			"student_login": "/auth/login/student",
			"teacher_login": "/auth/login/teacher",
			"register":      "/auth/register",
			"users":         "/users",
			"students":      "/students",
			"teachers":      "/teachers",
			"groups":        "/groups",
			"payments":      "/payments",
			"tasks":         "/tasks",
			"companies":     "/companies",
			"branches":      "/branches",
		},
	}
}

// Health reports liveness.
func (s *SystemService) Health() HealthStatus {
	return HealthStatus{
		Status:  "ok",
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Driver:  s.store.Driver(),
		Metrics: s.metrics.Snapshot(),
	}
}

// Ready fails when any collection cannot be read.
func (s *SystemService) Ready(ctx context.Context) error {
	for _, name := range s.collections {
		var raw []json.RawMessage
		if err := s.store.Load(ctx, name, &raw); err != nil {
			return internalError(err, "collection "+name+" is unavailable")
		}
	}
	return nil
}
