package health

import "time"

// SessionCounter reports how many sessions are live.
type SessionCounter interface {
	Len() int
}

// Service encapsulates health-related checks.
type Service struct {
	Sessions      SessionCounter
	LLMConfigured bool
	Model         string
	ObjectStore   string
	started       time.Time
	now           func() time.Time
}

// Status is the health payload.
type Status struct {
	OK             bool   `json:"ok"`
	LLMConfigured  bool   `json:"llmConfigured"`
	Model          string `json:"model,omitempty"`
	ObjectStore    string `json:"objectStore"`
	ActiveSessions int    `json:"activeSessions"`
	UptimeSeconds  int64  `json:"uptimeSeconds"`
}

// NewService constructs a new health service.
func NewService(sessions SessionCounter, llmConfigured bool, model, objectStore string) *Service {
	return &Service{
		Sessions:      sessions,
		LLMConfigured: llmConfigured,
		Model:         model,
		ObjectStore:   objectStore,
		started:       time.Now(),
		now:           time.Now,
	}
}

// Status returns a health payload. A missing model key still reports ok since
// rendering and editing keep working.
func (s *Service) Status() Status {
	out := Status{
		OK:            true,
		LLMConfigured: s.LLMConfigured,
		ObjectStore:   s.ObjectStore,
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
	}
	if s.LLMConfigured {
		out.Model = s.Model
	}
	if s.Sessions != nil {
		out.ActiveSessions = s.Sessions.Len()
	}
	return out
}
