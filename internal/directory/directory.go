// Package directory derives a client directory from saved reports and serves
// autocomplete suggestions for the client form.
package directory

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"hoodreport/api/internal/report"
)

// Service answers suggestion queries. Meilisearch handles queries when it is
// reachable; otherwise an in-memory substring scan over the same entries
// serves as the fallback, so suggestions keep working offline.
type Service struct {
	meili *Meili
	log   *zap.SugaredLogger

	mu      sync.RWMutex
	entries []report.ClientInfo
}

// NewService creates the directory. meili may be nil when no search backend
// is configured.
func NewService(meili *Meili, log *zap.SugaredLogger) *Service {
	return &Service{meili: meili, log: log}
}

// Rebuild recomputes the directory from the full report set. One entry per
// client name: the last report seen for a name wins its details, but the
// entry keeps the position of the first sighting.
func (s *Service) Rebuild(records []report.Record) {
	entries := buildEntries(records)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()

	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	// Fire and forget; the local copy already serves queries.
	go func() {
		if err := s.meili.IndexClients(entries); err != nil {
			s.log.Warnw("client index update failed", "error", err)
		}
	}()
}

// Suggest returns clients matching the query. A blank query returns the full
// directory so the form can show recent clients before the user types.
func (s *Service) Suggest(query string) []report.ClientInfo {
	if s.meili != nil && s.meili.Healthy() && strings.TrimSpace(query) != "" {
		results, err := s.meili.Search(query)
		if err == nil {
			// Meilisearch ranks with typo tolerance; the contract is a plain
			// name substring match, so hits are filtered back down to that.
			return matchByName(results, query)
		}
		s.log.Warnw("client search failed, using local scan", "error", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if strings.TrimSpace(query) == "" {
		out := make([]report.ClientInfo, len(s.entries))
		copy(out, s.entries)
		return out
	}
	return matchByName(s.entries, query)
}

// matchByName keeps only entries whose name contains the query
// case-insensitively. Other fields never match.
func matchByName(entries []report.ClientInfo, query string) []report.ClientInfo {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []report.ClientInfo
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), q) {
			out = append(out, entry)
		}
	}
	return out
}

// Apply copies a chosen suggestion into a record. The whole client block is
// replaced, so fields the suggestion lacks come back blank rather than
// keeping stale values.
func Apply(rec report.Record, client report.ClientInfo) report.Record {
	return report.Reduce(rec, report.ApplyClient(client))
}

func buildEntries(records []report.Record) []report.ClientInfo {
	order := make([]string, 0, len(records))
	byName := make(map[string]report.ClientInfo, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Client.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, seen := byName[key]; !seen {
			order = append(order, key)
		}
		byName[key] = rec.Client
	}

	entries := make([]report.ClientInfo, 0, len(order))
	for _, key := range order {
		entries = append(entries, byName[key])
	}
	return entries
}
