package handlers

import (
	"context"
	"sync"

	"doctor_signage/internal/models"
	"doctor_signage/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockDisplay struct {
	mu      sync.Mutex
	view    models.DisplayView
	err     error
	updates chan models.DisplayView
}

func (m *mockDisplay) GetDisplay(context.Context) (models.DisplayView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view, m.err
}

func (m *mockDisplay) Subscribe() (<-chan models.DisplayView, func()) {
	if m.updates == nil {
		return make(chan models.DisplayView), func() {}
	}
	return m.updates, func() {}
}

type mockEventLog struct {
	resp       []models.DisplayEvent
	err        error
	lastFilter service.EventFilter
	calls      int
}

func (m *mockEventLog) List(_ context.Context, f service.EventFilter) ([]models.DisplayEvent, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).WithAPIKey(apiKey).InitRoutes()
}
