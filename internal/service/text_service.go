package service

import (
	"context"
	"strings"

	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/pkg/logger"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/internal/repository/memory"
	"bilara-reader-be/pkg/bilara"
	"bilara-reader-be/pkg/events"
	pktNats "bilara-reader-be/pkg/nats"
	"bilara-reader-be/pkg/store"

	"github.com/google/uuid"
)

type ITextService interface {
	// Compose renders the document identified by uid under the view state
	// resolved from the request parameters and the session's preference.
	Compose(ctx context.Context, sessionId uuid.UUID, uid string, params bilara.QueryParams, fragment string) (*dto.ComposeResponse, error)

	// Lookup resolves one word of the root text against the dictionary and
	// records it as the session's active lookup.
	Lookup(ctx context.Context, sessionId uuid.UUID, uid string, req *dto.LookupRequest) (*dto.LookupResponse, error)
}

type textService struct {
	texts           contract.TextRepository
	preferences     IPreferenceService
	editions        IEditionService
	transliteration ITransliterationService
	dictionary      Dictionary
	sessions        *memory.SessionRepository
	eventPublisher  *pktNats.Publisher
	logger          logger.ILogger
	defaultLang     string
}

func NewTextService(
	texts contract.TextRepository,
	preferences IPreferenceService,
	editions IEditionService,
	transliteration ITransliterationService,
	dictionary Dictionary,
	sessions *memory.SessionRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
	defaultLang string,
) ITextService {
	return &textService{
		texts:           texts,
		preferences:     preferences,
		editions:        editions,
		transliteration: transliteration,
		dictionary:      dictionary,
		sessions:        sessions,
		eventPublisher:  eventPublisher,
		logger:          log,
		defaultLang:     defaultLang,
	}
}

func (s *textService) Compose(ctx context.Context, sessionId uuid.UUID, uid string, params bilara.QueryParams, fragment string) (*dto.ComposeResponse, error) {
	lang := params.Lang
	if lang == "" {
		lang = s.defaultLang
	}

	doc, err := s.texts.GetDocument(ctx, uid, lang)
	if err != nil {
		return nil, err
	}

	sk, err := bilara.ParseSkeleton(doc.Skeleton)
	if err != nil {
		return nil, err
	}

	editionList := s.editions.List(ctx)

	if err := bilara.Merge(sk, doc.Overlays, editionList); err != nil {
		return nil, err
	}

	saved, err := s.preferences.Saved(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	// A pending restore is consumed by exactly one compose.
	session := s.sessions.GetOrCreate(sessionId.String())
	restore := session.RestorePending
	session.RestorePending = false

	resolution := bilara.Reconcile(params, saved, editionList, restore)
	state := resolution.State

	if state.Script != bilara.DefaultScript && doc.Overlays.HasRoot() {
		s.applyScript(ctx, sessionId, sk, doc.Uid, state.Script, doc.Overlays.Variant)
	}

	visibleRange, err := s.narrowToRequested(sk, doc.Uid, uid)
	if err != nil {
		return nil, err
	}

	bilara.ApplyHighlight(sk, state.Highlight)

	style := bilara.SelectStyle(state, doc.Overlays.HasRoot(), doc.Overlays.HasTranslation())

	html, err := sk.Render()
	if err != nil {
		return nil, err
	}

	session.LastUid = uid
	s.sessions.Save(session)

	if s.eventPublisher != nil {
		event := events.NewDocumentComposed(sessionId.String(), uid, lang, resolution.Mismatch)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("TextService", "Failed to publish compose event", map[string]interface{}{
				"uid":   uid,
				"error": err.Error(),
			})
		}
	}

	return &dto.ComposeResponse{
		Uid:  uid,
		Html: html,
		ViewState: dto.ViewStateDTO{
			Layout:     string(state.Layout),
			Notes:      string(state.Notes),
			Script:     state.Script,
			References: state.References,
			Highlight:  state.Highlight,
		},
		StyleName:      style.Name,
		StyleCSS:       style.CSS,
		NoteCSS:        bilara.NoteDisplayCSS(state.Notes),
		ReferenceCSS:   bilara.ReferenceDisplayCSS(state.References, fragment != ""),
		CanonicalQuery: bilara.CanonicalQuery(state, params.Lang, fragment),
		Mismatch:       resolution.Mismatch,
		VisibleRange:   visibleRange,
		Toc:            s.buildTOC(sk, doc.Overlays),
		Publication: dto.PublicationDTO{
			Uid:             doc.Publication.Uid,
			RootLang:        doc.Publication.RootLang,
			TranslationLang: doc.Publication.TranslationLang,
			Author:          doc.Publication.Author,
			Title:           doc.Publication.Title,
		},
	}, nil
}

// applyScript swaps the root text for its transliterated rendering. The
// generation counter discards responses that a later script change has
// already superseded; any failure degrades to the published script.
func (s *textService) applyScript(ctx context.Context, sessionId uuid.UUID, sk *bilara.Skeleton, uid, script string, variants bilara.Overlay) {
	gen := s.transliteration.Begin(sessionId.String())

	source, err := s.transliteration.Fetch(ctx, uid, script)
	if err != nil {
		s.logger.Warn("TextService", "Transliteration fetch failed, keeping published script", map[string]interface{}{
			"uid":    uid,
			"script": script,
			"error":  err.Error(),
		})
		return
	}

	if !s.transliteration.Fresh(sessionId.String(), gen) {
		s.logger.Debug("TextService", "Stale transliteration discarded", map[string]interface{}{
			"uid":    uid,
			"script": script,
		})
		return
	}

	if err := bilara.ApplyTransliteratedRoot(sk, source, script, variants); err != nil {
		s.logger.Warn("TextService", "Transliteration apply failed", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
		return
	}
	sk.InvalidateSegmentation()
}

// narrowToRequested hides every part of a bundled document except the
// requested sub-work. Returns the id of the visible container, empty when the
// whole document is shown.
func (s *textService) narrowToRequested(sk *bilara.Skeleton, fileUid, requestedUid string) (string, error) {
	if fileUid == requestedUid {
		return "", nil
	}
	// Ranged bundles carry dotted container ids; verse collections
	// interleave works inside shared containers.
	if strings.Contains(fileUid, ".") {
		visible, err := bilara.ResolveRange(sk, requestedUid)
		if err != nil {
			return "", err
		}
		bilara.UpdateRangeTitles(sk, requestedUid)
		return visible, nil
	}
	bilara.ResolveVerseRange(sk, requestedUid)
	return requestedUid, nil
}

func (s *textService) buildTOC(sk *bilara.Skeleton, overlays bilara.OverlaySet) []dto.TOCEntryDTO {
	source := overlays.Translation
	if source == nil {
		source = overlays.Root
	}
	entries := bilara.ExtractTOC(sk, source)
	if len(entries) == 0 {
		return nil
	}
	out := make([]dto.TOCEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = dto.TOCEntryDTO{Link: e.Link, Name: e.Name}
	}
	return out
}

func (s *textService) Lookup(ctx context.Context, sessionId uuid.UUID, uid string, req *dto.LookupRequest) (*dto.LookupResponse, error) {
	lang := req.Lang
	if lang == "" {
		lang = "pli"
	}

	doc, err := s.texts.GetDocument(ctx, uid, s.defaultLang)
	if err != nil {
		return nil, err
	}

	sk, err := bilara.ParseSkeleton(doc.Skeleton)
	if err != nil {
		return nil, err
	}
	if err := bilara.Merge(sk, doc.Overlays, nil); err != nil {
		return nil, err
	}

	// Segmentation is enabled lazily, on the first lookup of a document.
	spanCount := sk.SegmentRootText(bilara.UnitForLanguage(lang))

	definition, err := s.dictionary.Lookup(ctx, req.Word, lang)
	if err != nil {
		s.logger.Warn("TextService", "Dictionary lookup failed", map[string]interface{}{
			"word":  req.Word,
			"error": err.Error(),
		})
		definition = ""
	}

	session := s.sessions.GetOrCreate(sessionId.String())
	session.ActiveLookup = &store.Lookup{SegmentID: req.SegmentId, Word: req.Word}
	s.sessions.Save(session)

	return &dto.LookupResponse{
		SegmentId:  req.SegmentId,
		Word:       req.Word,
		Definition: definition,
		SpanCount:  spanCount,
	}, nil
}
