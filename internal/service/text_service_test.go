package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/repository/filesystem"
	"bilara-reader-be/internal/repository/memory"
	"bilara-reader-be/pkg/bilara"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type staticEditions struct {
	editions []bilara.Edition
}

func (s staticEditions) List(ctx context.Context) []bilara.Edition { return s.editions }
func (s staticEditions) LastError() error                          { return nil }

type staticDictionary struct {
	definition string
}

func (d staticDictionary) Lookup(ctx context.Context, word, lang string) (string, error) {
	return d.definition, nil
}

func writeArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTextFixture(t *testing.T, dataDir string) (ITextService, IPreferenceService, *memory.SessionRepository) {
	t.Helper()
	sessions := memory.NewSessionRepository()
	prefs, _ := newPreferenceFixture(sessions)
	translit := NewTransliterationService("http://unused", time.Second, sessions, nopLogger{})

	svc := NewTextService(
		filesystem.NewTextRepository(dataDir),
		prefs,
		staticEditions{},
		translit,
		staticDictionary{definition: "thus"},
		sessions,
		nil,
		nopLogger{},
		"en",
	)
	return svc, prefs, sessions
}

func TestComposeMergesOverlays(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1">
  <header><h1><span class="segment" id="mn1:0.1"></span></h1></header>
  <p><span class="segment" id="mn1:1.1"></span></p>
</article>`,
		"root/mn1.json":           `{"_lang":"pli","mn1:0.1":"Mūlapariyāyasutta","mn1:1.1":"Evaṁ me sutaṁ—"}`,
		"translation/mn1_en.json": `{"mn1:0.1":"The Root of All Things","mn1:1.1":"So I have heard."}`,
		"publication/mn1_en.json": `{"root_lang":"pli","lang":"en","author_uid":"sujato","title":"The Root of All Things"}`,
	})
	svc, _, sessions := newTextFixture(t, dir)
	sessionId := uuid.New()

	res, err := svc.Compose(context.Background(), sessionId, "mn1", bilara.QueryParams{}, "")
	assert.NoError(t, err)

	assert.Equal(t, "mn1", res.Uid)
	assert.Contains(t, res.Html, "So I have heard.")
	assert.Contains(t, res.Html, "Evaṁ me sutaṁ—")
	assert.Contains(t, res.Html, `class="root"`)
	assert.Contains(t, res.Html, `class="translation"`)

	// No URL parameters: the saved (default) preference applies unchanged.
	assert.False(t, res.Mismatch)
	assert.Equal(t, "sidebyside", res.ViewState.Layout)
	assert.NotEmpty(t, res.StyleName)
	assert.NotEmpty(t, res.StyleCSS)

	assert.Equal(t, "sujato", res.Publication.Author)
	assert.Equal(t, "pli", res.Publication.RootLang)
	assert.Empty(t, res.VisibleRange)

	// The session tracks the last opened document.
	session, found := sessions.Get(sessionId.String())
	assert.True(t, found)
	assert.Equal(t, "mn1", session.LastUid)
}

func TestComposeURLParametersOverrideAndFlagMismatch(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1"><p><span class="segment" id="mn1:1.1"></span></p></article>`,
		"root/mn1.json":     `{"_lang":"pli","mn1:1.1":"Evaṁ me sutaṁ—"}`,
	})
	svc, _, _ := newTextFixture(t, dir)

	res, err := svc.Compose(context.Background(), uuid.New(), "mn1", bilara.QueryParams{Layout: "plain"}, "")
	assert.NoError(t, err)

	assert.True(t, res.Mismatch)
	assert.Equal(t, "plain", res.ViewState.Layout)
	assert.Contains(t, res.CanonicalQuery, "layout=plain")
}

func TestComposeRestoreRevertsDespiteStaleURL(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1"><p><span class="segment" id="mn1:1.1"></span></p></article>`,
		"root/mn1.json":     `{"_lang":"pli","mn1:1.1":"Evaṁ me sutaṁ—"}`,
	})
	svc, prefs, _ := newTextFixture(t, dir)
	sessionId := uuid.New()
	staleParams := bilara.QueryParams{Layout: "plain"}

	res, err := svc.Compose(context.Background(), sessionId, "mn1", staleParams, "")
	assert.NoError(t, err)
	assert.True(t, res.Mismatch)

	_, err = prefs.Restore(context.Background(), sessionId)
	assert.NoError(t, err)

	// The same stale URL parameters no longer win right after a restore.
	res, err = svc.Compose(context.Background(), sessionId, "mn1", staleParams, "")
	assert.NoError(t, err)
	assert.False(t, res.Mismatch)
	assert.Equal(t, "sidebyside", res.ViewState.Layout)

	// One compose consumes the restore; the stale URL applies again after.
	res, err = svc.Compose(context.Background(), sessionId, "mn1", staleParams, "")
	assert.NoError(t, err)
	assert.True(t, res.Mismatch)
	assert.Equal(t, "plain", res.ViewState.Layout)
}

func TestComposeResolvesBundledRange(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/wk.1-10.html": `<article id="wk.1-5"><p><span class="segment" id="wk.1-5:1.1"></span></p></article>
<article id="wk.6-10"><p><span class="segment" id="wk.6-10:1.1"></span></p></article>`,
	})
	svc, _, _ := newTextFixture(t, dir)

	res, err := svc.Compose(context.Background(), uuid.New(), "wk.7", bilara.QueryParams{}, "")
	assert.NoError(t, err)

	assert.Equal(t, "wk.7", res.Uid)
	assert.Equal(t, "wk.6-10", res.VisibleRange)
	assert.Contains(t, res.Html, `id="wk.1-5" style="display: none"`)
}

func TestComposeUnknownUid(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1"></article>`,
	})
	svc, _, _ := newTextFixture(t, dir)

	_, err := svc.Compose(context.Background(), uuid.New(), "xyz99", bilara.QueryParams{}, "")
	assert.ErrorIs(t, err, serverutils.ErrNotFound)
}

func TestLookupSegmentsAndRecordsSelection(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1"><p><span class="segment" id="mn1:1.1"></span></p></article>`,
		"root/mn1.json":     `{"_lang":"pli","mn1:1.1":"Evaṁ me sutaṁ—"}`,
	})
	svc, _, sessions := newTextFixture(t, dir)
	sessionId := uuid.New()

	res, err := svc.Lookup(context.Background(), sessionId, "mn1", &dto.LookupRequest{
		SegmentId: "mn1:1.1",
		Word:      "sutaṁ",
		Lang:      "pli",
	})
	assert.NoError(t, err)

	assert.Equal(t, "thus", res.Definition)
	assert.Equal(t, "sutaṁ", res.Word)
	assert.Greater(t, res.SpanCount, 0)

	session, found := sessions.Get(sessionId.String())
	assert.True(t, found)
	if assert.NotNil(t, session.ActiveLookup) {
		assert.Equal(t, "mn1:1.1", session.ActiveLookup.SegmentID)
		assert.Equal(t, "sutaṁ", session.ActiveLookup.Word)
	}
}

func TestComposeHighlightToggle(t *testing.T) {
	dir := writeArchive(t, map[string]string{
		"skeleton/mn1.html": `<article id="mn1"><p><span class="segment" id="mn1:1.1"></span></p></article>`,
		"root/mn1.json":     `{"_lang":"pli","mn1:1.1":"Evaṁ me sutaṁ—"}`,
	})
	svc, _, _ := newTextFixture(t, dir)

	res, err := svc.Compose(context.Background(), uuid.New(), "mn1", bilara.QueryParams{Highlight: "true"}, "")
	assert.NoError(t, err)
	assert.True(t, res.ViewState.Highlight)
	assert.Contains(t, res.Html, "highlight")

	res, err = svc.Compose(context.Background(), uuid.New(), "mn1", bilara.QueryParams{}, "")
	assert.NoError(t, err)
	assert.NotContains(t, res.Html, `class="highlight`)
}
