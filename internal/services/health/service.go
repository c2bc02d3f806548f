package health

import "time"

// Service encapsulates health-related checks.
type Service struct {
	env        string
	backendURL string
	started    time.Time
}

// NewService constructs a new health service.
func NewService(env, backendURL string) *Service {
	return &Service{
		env:        env,
		backendURL: backendURL,
		started:    time.Now(),
	}
}

// Status returns a simple health payload. The backend URL is reported, not
// probed; the service is healthy whenever it can serve requests.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok":             true,
		"env":            s.env,
		"backend":        s.backendURL,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	}
}
