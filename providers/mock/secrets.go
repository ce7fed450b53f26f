package mock

import (
	"context"
	"strconv"
	"time"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// recoveryWindow is the recovery period a non-forced delete stamps into the
// secret's DeletesAt, mirroring the real providers' recovery window (soft
// delete; deleteSecret(force=true) bypasses it). The mock records the
// deadline but never purges the secret when it passes.
const recoveryWindow = 30 * 24 * time.Hour

type secrets struct{ w *world }

var _ control.SecretsService = (*secrets)(nil)

func (s *secrets) CreateSecret(ctx context.Context, name string, value api.SecretValue, tags map[string]string) (api.Secret, error) {
	s.w.secretsMu.Lock()
	defer s.w.secretsMu.Unlock()
	if st, exists := s.w.secrets[name]; exists && !st.secret.PendingDeletion {
		return api.Secret{}, cperrors.ConflictErr(name, "secret %q already exists", name)
	}
	now := s.w.now()
	value.Version = "1"
	st := &mockSecretState{
		secret: api.Secret{
			Name:         name,
			Version:      "1",
			Created:      now,
			LastModified: now,
			Tags:         copyStrMap(tags),
		},
		value:    value,
		versionN: 1,
	}
	s.w.secrets[name] = st
	return st.secret, nil
}

func (s *secrets) GetSecretValue(ctx context.Context, name string) (api.SecretValue, error) {
	s.w.injectLatency()
	s.w.secretsMu.RLock()
	defer s.w.secretsMu.RUnlock()
	st, ok := s.w.secrets[name]
	if !ok || st.secret.PendingDeletion {
		return api.SecretValue{}, cperrors.NotFound("Secret", name)
	}
	return st.value, nil
}

func (s *secrets) UpdateSecret(ctx context.Context, name string, value api.SecretValue) (api.Secret, error) {
	s.w.secretsMu.Lock()
	defer s.w.secretsMu.Unlock()
	st, ok := s.w.secrets[name]
	if !ok || st.secret.PendingDeletion {
		return api.Secret{}, cperrors.NotFound("Secret", name)
	}
	st.versionN++
	version := strconv.Itoa(st.versionN)
	value.Version = version
	st.value = value
	st.secret.Version = version
	st.secret.LastModified = s.w.now()
	return st.secret, nil
}

func (s *secrets) DeleteSecret(ctx context.Context, name string, force bool) error {
	s.w.secretsMu.Lock()
	defer s.w.secretsMu.Unlock()
	st, ok := s.w.secrets[name]
	if !ok {
		return cperrors.NotFound("Secret", name)
	}
	if force {
		delete(s.w.secrets, name)
		return nil
	}
	deletesAt := s.w.now().Add(recoveryWindow)
	st.secret.PendingDeletion = true
	st.secret.DeletesAt = &deletesAt
	return nil
}

func (s *secrets) ListSecrets(ctx context.Context) ([]api.Secret, error) {
	s.w.secretsMu.RLock()
	defer s.w.secretsMu.RUnlock()
	out := make([]api.Secret, 0, len(s.w.secrets))
	for _, st := range s.w.secrets {
		out = append(out, st.secret)
	}
	return out, nil
}

func (s *secrets) RotateSecret(ctx context.Context, name string, cfg api.RotationConfig) (api.Secret, error) {
	s.w.secretsMu.Lock()
	defer s.w.secretsMu.Unlock()
	st, ok := s.w.secrets[name]
	if !ok || st.secret.PendingDeletion {
		return api.Secret{}, cperrors.NotFound("Secret", name)
	}
	st.secret.RotationEnabled = cfg.Enabled
	if cfg.Enabled {
		days := cfg.Days
		st.secret.RotationDays = &days
	} else {
		st.secret.RotationDays = nil
	}
	now := s.w.now()
	st.secret.LastRotated = &now
	st.versionN++
	st.secret.Version = strconv.Itoa(st.versionN)
	st.secret.LastModified = now
	return st.secret, nil
}

func (s *secrets) TagSecret(ctx context.Context, name string, tags map[string]string) error {
	s.w.secretsMu.Lock()
	defer s.w.secretsMu.Unlock()
	st, ok := s.w.secrets[name]
	if !ok || st.secret.PendingDeletion {
		return cperrors.NotFound("Secret", name)
	}
	if st.secret.Tags == nil {
		st.secret.Tags = make(map[string]string)
	}
	for k, v := range tags {
		st.secret.Tags[k] = v
	}
	return nil
}
