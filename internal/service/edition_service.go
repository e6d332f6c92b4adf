package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"bilara-reader-be/internal/pkg/logger"
	"bilara-reader-be/pkg/bilara"

	"github.com/patrickmn/go-cache"
)

type IEditionService interface {
	// List returns the known citation editions. On upstream failure it
	// degrades to nil (citations render as raw tokens) and records the
	// error; it never fails a composition.
	List(ctx context.Context) []bilara.Edition

	// LastError reports the most recent fetch failure, nil when healthy.
	LastError() error
}

const editionCacheKey = "editions"

type editionService struct {
	endpoint string
	client   *http.Client
	cache    *cache.Cache
	logger   logger.ILogger

	mu      sync.Mutex
	lastErr error
}

func NewEditionService(endpoint string, timeout time.Duration, log logger.ILogger) IEditionService {
	return &editionService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		// Edition metadata changes rarely; refetch at most hourly.
		cache:  cache.New(1*time.Hour, 10*time.Minute),
		logger: log,
	}
}

func (s *editionService) List(ctx context.Context) []bilara.Edition {
	if x, found := s.cache.Get(editionCacheKey); found {
		return x.([]bilara.Edition)
	}

	editions, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Warn("EditionService", "Edition fetch failed, degrading to raw citations", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	s.cache.Set(editionCacheKey, editions, cache.DefaultExpiration)
	return editions
}

func (s *editionService) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *editionService) fetch(ctx context.Context) ([]bilara.Edition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edition endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var editions []bilara.Edition
	if err := json.Unmarshal(body, &editions); err != nil {
		return nil, fmt.Errorf("parse edition metadata: %w", err)
	}
	return editions, nil
}
