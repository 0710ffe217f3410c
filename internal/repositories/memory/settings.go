package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/waqf_ledger/internal/apperrors"
	"github.com/SscSPs/waqf_ledger/internal/core/domain"
)

func (s *Store) FindActiveSettings(ctx context.Context) (*domain.DistributionSettings, error) {
	var out *domain.DistributionSettings
	err := s.view(ctx, func(st *state) error {
		for _, v := range st.settings {
			if v.IsActive {
				v := v
				out = &v
				return nil
			}
		}
		return apperrors.NewNotFoundError("no active distribution settings")
	})
	return out, err
}

func (s *Store) FindSettingsByID(ctx context.Context, settingsID string) (*domain.DistributionSettings, error) {
	var out *domain.DistributionSettings
	err := s.view(ctx, func(st *state) error {
		v, ok := st.settings[settingsID]
		if !ok {
			return apperrors.ErrNotFound
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ListSettings(ctx context.Context) ([]domain.DistributionSettings, error) {
	var out []domain.DistributionSettings
	err := s.view(ctx, func(st *state) error {
		out = make([]domain.DistributionSettings, 0, len(st.settings))
		for _, v := range st.settings {
			out = append(out, v)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
		return nil
	})
	return out, err
}

func (s *Store) SaveSettingsVersion(ctx context.Context, settings *domain.DistributionSettings) error {
	return s.view(ctx, func(st *state) error {
		latest := 0
		for id, v := range st.settings {
			if v.Version > latest {
				latest = v.Version
			}
			if v.IsActive {
				v.IsActive = false
				st.settings[id] = v
			}
		}
		settings.Version = latest + 1
		settings.IsActive = true
		st.settings[settings.SettingsID] = *settings
		return nil
	})
}
