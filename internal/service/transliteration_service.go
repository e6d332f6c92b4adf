package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bilara-reader-be/internal/pkg/logger"
	"bilara-reader-be/internal/repository/memory"
	"bilara-reader-be/pkg/bilara"

	"github.com/patrickmn/go-cache"
)

type ITransliterationService interface {
	// Begin registers a script change for the session and returns its
	// generation. A later Begin for the same session supersedes it.
	Begin(sessionID string) uint64

	// Fresh reports whether gen is still the session's current generation.
	// Responses for stale generations must be discarded, not applied.
	Fresh(sessionID string, gen uint64) bool

	// Fetch retrieves the root text of uid rendered in the given script.
	Fetch(ctx context.Context, uid, script string) (*bilara.TextSource, error)
}

type transliterationFetcher func(ctx context.Context, uid, script string) (bilara.Overlay, error)

type transliterationService struct {
	baseURL  string
	client   *http.Client
	cache    *cache.Cache
	sessions *memory.SessionRepository
	logger   logger.ILogger

	// Swapped out in tests.
	fetch transliterationFetcher
}

func NewTransliterationService(baseURL string, timeout time.Duration, sessions *memory.SessionRepository, log logger.ILogger) ITransliterationService {
	s := &transliterationService{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		cache:    cache.New(30*time.Minute, 10*time.Minute),
		sessions: sessions,
		logger:   log,
	}
	s.fetch = s.fetchRemote
	return s
}

func (s *transliterationService) Begin(sessionID string) uint64 {
	session := s.sessions.GetOrCreate(sessionID)
	session.TransliterationGen++
	s.sessions.Save(session)
	return session.TransliterationGen
}

func (s *transliterationService) Fresh(sessionID string, gen uint64) bool {
	session, found := s.sessions.Get(sessionID)
	if !found {
		return false
	}
	return session.TransliterationGen == gen
}

func (s *transliterationService) Fetch(ctx context.Context, uid, script string) (*bilara.TextSource, error) {
	key := uid + ":" + script
	if x, found := s.cache.Get(key); found {
		return x.(*bilara.TextSource), nil
	}

	segments, err := s.fetch(ctx, uid, script)
	if err != nil {
		return nil, err
	}

	source := &bilara.TextSource{Lang: "pli", Segments: segments}
	s.cache.Set(key, source, cache.DefaultExpiration)
	return source, nil
}

func (s *transliterationService) fetchRemote(ctx context.Context, uid, script string) (bilara.Overlay, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, uid, script)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transliteration endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var segments bilara.Overlay
	if err := json.Unmarshal(body, &segments); err != nil {
		return nil, fmt.Errorf("parse transliteration for %s/%s: %w", uid, script, err)
	}
	return segments, nil
}
