package evidence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/agenthands/factcheck/internal/core/model"
)

type MockRetriever struct {
	Hits      []model.SearchHit
	Contents  map[int64]string
	Errs      map[int64]error
	Delays    map[int64]time.Duration
	SearchErr error

	mu      sync.Mutex
	Fetched []int64
}

func (m *MockRetriever) Search(ctx context.Context, query, language string, limit int) ([]model.SearchHit, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Hits, nil
}

func (m *MockRetriever) FetchContent(ctx context.Context, pageID int64, language string) (string, error) {
	if d := m.Delays[pageID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	m.Fetched = append(m.Fetched, pageID)
	m.mu.Unlock()

	if err := m.Errs[pageID]; err != nil {
		return "", err
	}
	return m.Contents[pageID], nil
}

func (m *MockRetriever) PageURL(pageID int64, language string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/?curid=%d", language, pageID)
}
