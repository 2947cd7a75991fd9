package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

type PreferencesService struct {
	prefs PreferencesRepository
	sim   Simulator
	opts  *options
}

// Get returns the stored preferences or the defaults.
func (s *PreferencesService) Get(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Preferences{}, err
	}
	return s.load(ctx, userID)
}

// Update merges patch over the current preferences and stores the result.
func (s *PreferencesService) Update(ctx context.Context, userID uuid.UUID, patch PreferencesPatch) (Preferences, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	p = patch.apply(p)
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Preferences{}, err
	}
	if err := s.prefs.PutPreferences(ctx, userID, p); err != nil {
		return Preferences{}, fmt.Errorf("store preferences: %w", err)
	}
	return p, nil
}

// Reset restores the defaults.
func (s *PreferencesService) Reset(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Preferences{}, err
	}
	p := DefaultPreferences()
	if err := s.prefs.PutPreferences(ctx, userID, p); err != nil {
		return Preferences{}, fmt.Errorf("store preferences: %w", err)
	}
	return p, nil
}

func (s *PreferencesService) load(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	p, err := s.prefs.GetPreferences(ctx, userID)
	if errors.Is(err, ErrPreferencesNotFound) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return p, nil
}

func (patch PreferencesPatch) apply(p Preferences) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.FontSize != nil {
		p.FontSize = *patch.FontSize
	}
	if patch.Language != nil {
		p.Language = *patch.Language
	}
	if patch.EmailNotifications != nil {
		p.EmailNotifications = *patch.EmailNotifications
	}
	if patch.PushNotifications != nil {
		p.PushNotifications = *patch.PushNotifications
	}
	if patch.WeeklyDigest != nil {
		p.WeeklyDigest = *patch.WeeklyDigest
	}
	if patch.Privacy != nil {
		p.Privacy = *patch.Privacy
	}
	return p
}
