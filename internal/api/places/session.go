package places

import (
	"sync"

	"github.com/Sayan-Mondal2022/travAi/internal/models"
)

// Session tracks which place identities have already been accepted during
// one aggregation request. It is scoped to that single request; sharing a
// Session across concurrent requests would corrupt their dedup accounting.
type Session struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSession() *Session {
	return &Session{seen: make(map[string]struct{})}
}

// Admit returns the records whose identity has not been seen in this
// session, marking them seen. Records without a usable identity are
// dropped.
func (s *Session) Admit(records []models.PlaceRecord) []models.PlaceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	admitted := make([]models.PlaceRecord, 0, len(records))
	for _, record := range records {
		id := record.ID
		if id == "" {
			id = record.Name
		}
		if id == "" {
			continue
		}
		if _, dup := s.seen[id]; dup {
			continue
		}
		s.seen[id] = struct{}{}
		admitted = append(admitted, record)
	}
	return admitted
}

// Len reports how many distinct identities the session has seen.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
