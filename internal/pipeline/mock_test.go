package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/internal/store"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

// mockBackend routes responses by a substring of the system prompt so a
// single mock can serve every stage in one run.
type mockBackend struct {
	mu        sync.Mutex
	responses map[string]string
	errors    map[string]error
	calls     []string
}

func newMockBackend() *mockBackend {
	return &mockBackend{
		responses: map[string]string{},
		errors:    map[string]error{},
	}
}

func (m *mockBackend) CreateMessage(_ context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	system := ""
	if len(req.System) > 0 {
		system = req.System[0].Text
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, err := range m.errors {
		if strings.Contains(system, key) {
			m.calls = append(m.calls, key)
			return nil, err
		}
	}
	for key, text := range m.responses {
		if strings.Contains(system, key) {
			m.calls = append(m.calls, key)
			return &anthropic.MessageResponse{
				Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
			}, nil
		}
	}
	m.calls = append(m.calls, "unmatched")
	return nil, eris.New("mock backend: no canned response for system prompt")
}

func (m *mockBackend) callCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == key {
			n++
		}
	}
	return n
}

func (m *mockBackend) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockDiscoverer struct {
	mu          sync.Mutex
	evidence    []model.Evidence
	competitors []model.Competitor
	err         error
	calls       int
}

func (m *mockDiscoverer) Discover(context.Context, string, model.Category) ([]model.Evidence, []model.Competitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls += 1
	return m.evidence, m.competitors, m.err
}

type mockScraper struct {
	mu       sync.Mutex
	evidence []model.Evidence
	ledger   model.Ledger
	calls    int
}

func (m *mockScraper) ScrapeAll(context.Context, []string, string, model.Category) ([]model.Evidence, model.Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls += 1
	return m.evidence, m.ledger
}

func (m *mockScraper) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// recordingStore captures persistence calls for assertions.
type recordingStore struct {
	mu       sync.Mutex
	statuses []model.RunStatus
	saved    *model.ValidationResult
	failed   string
}

var _ store.Store = (*recordingStore)(nil)

func (s *recordingStore) CreateRun(_ context.Context, idea string) (*model.Run, error) {
	now := time.Now().UTC()
	return &model.Run{ID: uuid.New().String(), Idea: idea, Status: model.RunStatusQueued, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *recordingStore) UpdateRunStatus(_ context.Context, _ string, status model.RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *recordingStore) SaveResult(_ context.Context, _ string, result *model.ValidationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = result
	return nil
}

func (s *recordingStore) MarkFailed(_ context.Context, _ string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = cause
	return nil
}

func (s *recordingStore) GetRun(context.Context, string) (*model.Run, error) {
	return nil, eris.New("not implemented")
}

func (s *recordingStore) ListRuns(context.Context, store.RunFilter) ([]model.Run, error) {
	return nil, nil
}

func (s *recordingStore) Migrate(context.Context) error { return nil }
func (s *recordingStore) Close() error                  { return nil }

const (
	researcherJSON = `{"what_users_love": ["fast sync"], "what_users_hate": ["ads everywhere"], "community_signals": ["reddit thread asking for this"]}`
	productJSON    = `{"mvp_roadmap": ["offline mode", "no ads tier"]}`
	analystJSON    = `{"score_breakdown": {"pain_severity": 80, "market_gap": 70, "mvp_feasibility": 90, "competition_density": 60, "monetization_potential": 50, "community_demand": 40, "startup_saturation": 30}, "pricing_suggestion": "Freemium", "target_platform_recommendation": "iOS first", "market_breakdown": "iOS users pay more", "market_size": "mid", "funding_landscape": "none notable", "go_to_market": "app store ads"}`
	classifyJSON   = `{"category": "mobile_app", "subcategory": "productivity"}`
)

func happyBackend() *mockBackend {
	b := newMockBackend()
	b.responses["Classify a startup idea"] = classifyJSON
	b.responses["market researcher"] = researcherJSON
	b.responses["product manager"] = productJSON
	b.responses["business analyst"] = analystJSON
	return b
}
