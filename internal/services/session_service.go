package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wisdomcard/internal/models/response_models"
	"wisdomcard/internal/prompts"
	"wisdomcard/internal/session"
	"wisdomcard/pkg/memcache"
	"wisdomcard/pkg/utils"
)

type SessionServiceInterface interface {
	Meta() response_models.MetaResponse
	Theme() prompts.Theme

	Create() response_models.SessionView
	View(id string) (response_models.SessionView, error)
	SetInput(id, text string) (response_models.SessionView, error)
	ApplySuggestion(id string, index int) (response_models.SessionView, error)

	// Submit starts a fetch. started is false when the input was blank.
	// With wait set it blocks until the fetch settles or ctx ends.
	Submit(ctx context.Context, id, input string, wait bool) (view response_models.SessionView, started bool, err error)
	Reset(id string) (response_models.SessionView, error)
	Retry(id string) (response_models.SessionView, error)
	Delete(id string) error
}

type SessionService struct {
	store   memcache.SessionStore
	theme   prompts.Theme
	variant prompts.Variant
	now     func() time.Time
}

func NewSessionService(store memcache.SessionStore, theme prompts.Theme, variant prompts.Variant) SessionServiceInterface {
	return &SessionService{
		store:   store,
		theme:   theme,
		variant: variant,
		now:     time.Now,
	}
}

func (s *SessionService) Meta() response_models.MetaResponse {
	return response_models.MetaResponse{
		Theme:       s.theme.Name,
		Title:       s.theme.Title,
		Tagline:     s.theme.Tagline,
		Suggestions: append([]string(nil), s.theme.Suggestions...),
		Variant:     s.variant.Name,
		Layout:      s.variant.Layout,
	}
}

func (s *SessionService) Theme() prompts.Theme { return s.theme }

func (s *SessionService) Create() response_models.SessionView {
	id, ctrl := s.store.Create()
	return s.view(id, ctrl.Snapshot())
}

func (s *SessionService) View(id string) (response_models.SessionView, error) {
	ctrl, err := s.store.Get(id)
	if err != nil {
		return response_models.SessionView{}, err
	}
	return s.view(id, ctrl.Snapshot()), nil
}

func (s *SessionService) SetInput(id, text string) (response_models.SessionView, error) {
	ctrl, err := s.store.Get(id)
	if err != nil {
		return response_models.SessionView{}, err
	}
	if err := ctrl.SetInput(text); err != nil {
		return response_models.SessionView{}, err
	}
	return s.view(id, ctrl.Snapshot()), nil
}

// ApplySuggestion only fills the input; the visitor still submits it.
func (s *SessionService) ApplySuggestion(id string, index int) (response_models.SessionView, error) {
	text, ok := s.theme.Suggestion(index)
	if !ok {
		return response_models.SessionView{}, fmt.Errorf("%w: %d", utils.ErrInvalidSuggestion, index)
	}
	return s.SetInput(id, text)
}

func (s *SessionService) Submit(ctx context.Context, id, input string, wait bool) (response_models.SessionView, bool, error) {
	ctrl, err := s.store.Get(id)
	if err != nil {
		return response_models.SessionView{}, false, err
	}

	started, err := ctrl.Submit(input)
	if err != nil {
		return response_models.SessionView{}, false, err
	}
	if !started || !wait {
		return s.view(id, ctrl.Snapshot()), started, nil
	}

	snap, err := ctrl.Wait(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return response_models.SessionView{}, true, err
	}
	return s.view(id, snap), true, nil
}

func (s *SessionService) Reset(id string) (response_models.SessionView, error) {
	ctrl, err := s.store.Get(id)
	if err != nil {
		return response_models.SessionView{}, err
	}
	ctrl.Reset()
	return s.view(id, ctrl.Snapshot()), nil
}

func (s *SessionService) Retry(id string) (response_models.SessionView, error) {
	ctrl, err := s.store.Get(id)
	if err != nil {
		return response_models.SessionView{}, err
	}
	if err := ctrl.Retry(); err != nil {
		return response_models.SessionView{}, err
	}
	return s.view(id, ctrl.Snapshot()), nil
}

func (s *SessionService) Delete(id string) error {
	if !s.store.Delete(id) {
		return memcache.ErrSessionNotFound
	}
	return nil
}

func (s *SessionService) view(id string, snap session.Snapshot) response_models.SessionView {
	v := response_models.SessionView{
		SessionID: id,
		State:     string(snap.State),
		Input:     snap.Input,
		Question:  snap.Question,
	}
	if snap.State == session.StateSuccess {
		v.Result = snap.Result
	}
	if snap.State == session.StateLoading {
		since := snap.LoadingSince
		v.LoadingSince = &since
		v.LoadingMessage = s.theme.LoadingMessage(s.now().Sub(since))
	}
	return v
}
