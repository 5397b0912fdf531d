package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

type ComponentHealth struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (HealthStatus, string)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:     StatusHealthy,
		Components: make([]ComponentHealth, 0, len(s.checkers)),
		Timestamp:  time.Now().UTC(),
	}

	for _, checker := range s.checkers {
		status, message := checker.Check(ctx)
		response.Components = append(response.Components, ComponentHealth{
			Name:    checker.Name(),
			Status:  status,
			Message: message,
		})

		if status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// StoreHealthChecker reports store reachability.
type StoreHealthChecker struct {
	pingFunc func(ctx context.Context) error
}

func NewStoreHealthChecker(pingFunc func(ctx context.Context) error) *StoreHealthChecker {
	return &StoreHealthChecker{pingFunc: pingFunc}
}

func (c *StoreHealthChecker) Name() string {
	return "store"
}

func (c *StoreHealthChecker) Check(ctx context.Context) (HealthStatus, string) {
	if err := c.pingFunc(ctx); err != nil {
		return StatusUnhealthy, err.Error()
	}
	return StatusHealthy, ""
}

// RecordsHealthChecker reports whether any data has arrived yet.
type RecordsHealthChecker struct {
	countFunc func(ctx context.Context) (int64, error)
}

func NewRecordsHealthChecker(countFunc func(ctx context.Context) (int64, error)) *RecordsHealthChecker {
	return &RecordsHealthChecker{countFunc: countFunc}
}

func (c *RecordsHealthChecker) Name() string {
	return "records"
}

func (c *RecordsHealthChecker) Check(ctx context.Context) (HealthStatus, string) {
	count, err := c.countFunc(ctx)
	if err != nil {
		return StatusUnhealthy, err.Error()
	}

	if count == 0 {
		return StatusDegraded, "no records yet"
	}

	return StatusHealthy, ""
}
