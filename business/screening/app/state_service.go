package app

import (
	"context"
	"strings"
	"time"

	"github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/logger"
)

const maxSessionIDLen = 128

// FilterStateService keeps each browsing session's filter specification.
type FilterStateService struct {
	store  StateStore
	ttl    time.Duration
	logger logger.LoggerInterface
}

// NewFilterStateService creates the service. ttl of zero keeps state until reset.
func NewFilterStateService(store StateStore, ttl time.Duration, log logger.LoggerInterface) *FilterStateService {
	return &FilterStateService{store: store, ttl: ttl, logger: log}
}

// Key returns the storage key for a session.
func Key(sessionID string) string {
	return sessionID + ":" + StorageKey
}

// Load returns the session's filter. Missing or corrupt state yields the open filter.
func (s *FilterStateService) Load(ctx context.Context, sessionID string) (domain.FilterSpec, error) {
	if err := validateSessionID(sessionID); err != nil {
		return domain.FilterSpec{}, err
	}

	data, found, err := s.store.Load(ctx, Key(sessionID))
	if err != nil {
		return domain.FilterSpec{}, apperror.External(apperror.CodeFilterStateStore, "load", err)
	}
	if !found {
		return domain.FilterSpec{}, nil
	}

	spec, err := DecodeState(data)
	if err != nil {
		s.logger.Warn(ctx, "stored filter state is corrupt, using defaults",
			"session", sessionID,
			"error", err,
		)
		return domain.FilterSpec{}, nil
	}
	return spec, nil
}

// Save persists spec for the session.
func (s *FilterStateService) Save(ctx context.Context, sessionID string, spec domain.FilterSpec) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	data, err := EncodeState(spec)
	if err != nil {
		return apperror.Internal(apperror.CodeFilterStateStore, "encode", err)
	}
	if err := s.store.Save(ctx, Key(sessionID), data, s.ttl); err != nil {
		return apperror.External(apperror.CodeFilterStateStore, "save", err)
	}
	return nil
}

// Apply normalizes raw input, persists the result and returns it.
func (s *FilterStateService) Apply(ctx context.Context, sessionID string, raw domain.RawFilterInput) (domain.FilterSpec, error) {
	spec := Normalize(raw)
	if err := s.Save(ctx, sessionID, spec); err != nil {
		return spec, err
	}
	s.logger.Debug(ctx, "filter state saved", "session", sessionID, "active", spec.HasActiveFilters())
	return spec, nil
}

// Reset clears the session's filter state.
func (s *FilterStateService) Reset(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, Key(sessionID)); err != nil {
		return apperror.External(apperror.CodeFilterStateStore, "delete", err)
	}
	return nil
}

// Healthy reports whether the backing store answers.
func (s *FilterStateService) Healthy(ctx context.Context) (bool, string) {
	if err := s.store.Ping(ctx); err != nil {
		return false, err.Error()
	}
	return true, ""
}

func validateSessionID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxSessionIDLen || strings.ContainsAny(id, " \t\r\n") {
		return apperror.Validation(apperror.CodeInvalidSessionID, id)
	}
	return nil
}
