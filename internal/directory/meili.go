package directory

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"sync/atomic"
	"time"

	meili "github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"hoodreport/api/internal/report"
)

const idxClients = "hoodreport_clients"

// clientDoc is the indexed shape. The id is derived from the client name so
// reindexing the same directory overwrites instead of accumulating.
type clientDoc struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

// Meili indexes the client directory in Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	log     *zap.SugaredLogger
	healthy atomic.Bool
	done    chan struct{}
}

// NewMeili connects and configures the client index. The service stays usable
// when Meilisearch is down; a background loop notices recovery.
func NewMeili(url, apiKey string, log *zap.SugaredLogger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		log:    log,
		done:   make(chan struct{}),
	}

	if _, err := m.client.Health(); err != nil {
		log.Warnw("meilisearch unavailable", "url", url, "error", err)
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop()
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        idxClients,
		PrimaryKey: "id",
	}); err != nil {
		m.log.Debugw("create client index (may already exist)", "error", err)
	}
	// Suggestions match on client name only; the other fields are stored for
	// display, not matching.
	searchable := []string{"name"}
	if _, err := m.client.Index(idxClients).UpdateSearchableAttributes(&searchable); err != nil {
		m.log.Warnw("update searchable attrs", "error", err)
	}
}

func (m *Meili) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.log.Infow("meilisearch recovered, reconfiguring client index")
				m.configureIndex()
			}
		}
	}
}

// Close stops the background health monitor.
func (m *Meili) Close() {
	close(m.done)
}

// Healthy reports whether Meilisearch is reachable.
func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

// IndexClients pushes the full directory.
func (m *Meili) IndexClients(entries []report.ClientInfo) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]clientDoc, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, clientDoc{
			ID:      docID(entry.Name),
			Name:    entry.Name,
			Email:   entry.Email,
			Phone:   entry.Phone,
			Address: entry.Address,
			City:    entry.City,
			State:   entry.State,
			Zip:     entry.Zip,
		})
	}
	_, err := m.client.Index(idxClients).AddDocuments(docs, nil)
	return err
}

// Search queries the client index.
func (m *Meili) Search(query string) ([]report.ClientInfo, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}
	resp, err := m.client.Index(idxClients).Search(query, &meili.SearchRequest{Limit: 20})
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("client search: %w", err)
	}

	out := make([]report.ClientInfo, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		out = append(out, report.ClientInfo{
			Name:    hitString(hit, "name"),
			Email:   hitString(hit, "email"),
			Phone:   hitString(hit, "phone"),
			Address: hitString(hit, "address"),
			City:    hitString(hit, "city"),
			State:   hitString(hit, "state"),
			Zip:     hitString(hit, "zip"),
		})
	}
	return out, nil
}

func hitString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func docID(name string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return fmt.Sprintf("c%016x", h.Sum64())
}
