package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
)

// Dictionary resolves a word to its definition. The composition layer only
// depends on this contract; the dictionaries themselves live upstream.
type Dictionary interface {
	Lookup(ctx context.Context, word, lang string) (string, error)
}

type dictionaryService struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

func NewDictionaryService(baseURL string, timeout time.Duration) Dictionary {
	return &dictionaryService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (s *dictionaryService) Lookup(ctx context.Context, word, lang string) (string, error) {
	key := lang + ":" + word
	if x, found := s.cache.Get(key); found {
		return x.(string), nil
	}

	params := url.Values{}
	params.Add("word", word)
	params.Add("language", lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("dictionary endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var entries []struct {
		Definition string `json:"definition"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", fmt.Errorf("parse dictionary response: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}

	s.cache.Set(key, entries[0].Definition, cache.DefaultExpiration)
	return entries[0].Definition, nil
}
