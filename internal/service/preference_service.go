package service

import (
	"context"
	"encoding/json"
	"time"

	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/internal/repository/memory"
	"bilara-reader-be/internal/repository/specification"
	"bilara-reader-be/pkg/bilara"

	"github.com/google/uuid"
)

type IPreferenceService interface {
	Get(ctx context.Context, sessionId uuid.UUID) (*dto.GetPreferenceResponse, error)
	Update(ctx context.Context, sessionId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.UpdatePreferenceResponse, error)
	Restore(ctx context.Context, sessionId uuid.UUID) (*dto.RestorePreferenceResponse, error)

	// Saved returns the persisted view state of the session, falling back to
	// the defaults for sessions that never saved one.
	Saved(ctx context.Context, sessionId uuid.UUID) (bilara.ViewState, error)
}

type preferenceService struct {
	repo             contract.PreferenceRepository
	publisherService IPublisherService
	sessions         *memory.SessionRepository
}

func NewPreferenceService(
	repo contract.PreferenceRepository,
	publisherService IPublisherService,
	sessions *memory.SessionRepository,
) IPreferenceService {
	return &preferenceService{
		repo:             repo,
		publisherService: publisherService,
		sessions:         sessions,
	}
}

func (s *preferenceService) Saved(ctx context.Context, sessionId uuid.UUID) (bilara.ViewState, error) {
	pref, err := s.repo.FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return bilara.ViewState{}, err
	}
	if pref == nil {
		return bilara.DefaultViewState(), nil
	}
	return toViewState(pref), nil
}

func (s *preferenceService) Get(ctx context.Context, sessionId uuid.UUID) (*dto.GetPreferenceResponse, error) {
	vs, err := s.Saved(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return &dto.GetPreferenceResponse{
		Layout:     string(vs.Layout),
		Notes:      string(vs.Notes),
		Script:     vs.Script,
		References: vs.References,
		Highlight:  vs.Highlight,
	}, nil
}

func (s *preferenceService) Update(ctx context.Context, sessionId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.UpdatePreferenceResponse, error) {
	now := time.Now()
	pref := &entity.Preference{
		SessionId:  sessionId,
		Layout:     req.Layout,
		Notes:      req.Notes,
		Script:     normalizeScript(req.Script),
		References: bilara.NormalizeReferences(req.References),
		Highlight:  req.Highlight,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}

	if err := s.repo.Save(ctx, pref); err != nil {
		return nil, err
	}

	if err := s.publishChange(ctx, sessionId, toViewState(pref), false); err != nil {
		return nil, err
	}

	// The write itself synchronizes URL and store; the per-request mismatch
	// flag is recomputed on the next compose.
	return &dto.UpdatePreferenceResponse{Mismatch: false}, nil
}

func (s *preferenceService) Restore(ctx context.Context, sessionId uuid.UUID) (*dto.RestorePreferenceResponse, error) {
	vs, err := s.Saved(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	// The next compose for this session must revert immediately, even when
	// the request still carries the stale URL parameters.
	session := s.sessions.GetOrCreate(sessionId.String())
	session.RestorePending = true
	s.sessions.Save(session)

	if err := s.publishChange(ctx, sessionId, vs, true); err != nil {
		return nil, err
	}

	return &dto.RestorePreferenceResponse{
		Layout:     string(vs.Layout),
		Notes:      string(vs.Notes),
		Script:     vs.Script,
		References: vs.References,
		Highlight:  vs.Highlight,
	}, nil
}

func (s *preferenceService) publishChange(ctx context.Context, sessionId uuid.UUID, vs bilara.ViewState, restored bool) error {
	msg := dto.PreferenceChangedMessage{
		SessionId: sessionId,
		State: dto.ViewStateDTO{
			Layout:     string(vs.Layout),
			Notes:      string(vs.Notes),
			Script:     vs.Script,
			References: vs.References,
			Highlight:  vs.Highlight,
		},
		Restored: restored,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func toViewState(pref *entity.Preference) bilara.ViewState {
	vs := bilara.ViewState{
		Layout:     bilara.Layout(pref.Layout),
		Notes:      bilara.NoteMode(pref.Notes),
		Script:     pref.Script,
		References: bilara.NormalizeReferences(pref.References),
		Highlight:  pref.Highlight,
	}
	// Rows written by older revisions may hold values the parser no longer
	// accepts; degrade field-wise to the defaults.
	def := bilara.DefaultViewState()
	if _, ok := bilara.ParseLayout(pref.Layout); !ok {
		vs.Layout = def.Layout
	}
	if _, ok := bilara.ParseNotes(pref.Notes); !ok {
		vs.Notes = def.Notes
	}
	if !bilara.KnownScript(vs.Script) {
		vs.Script = def.Script
	}
	return vs
}

func normalizeScript(script string) string {
	if bilara.KnownScript(script) {
		return script
	}
	return bilara.DefaultScript
}
