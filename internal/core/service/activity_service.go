package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spectra-labs/spectra-api/internal/core/ports"
)

type activityService struct {
	log zerolog.Logger
}

// NewActivityService returns an ActivityService that writes auth activity
// to the structured log. Activity never touches the record store.
func NewActivityService(log zerolog.Logger) ports.ActivityService {
	return &activityService{log: log}
}

// Process records a single auth activity event.
func (s *activityService) Process(_ context.Context, in ports.ActivityInput) error {
	evt := s.log.Info()
	if !in.Succeeded {
		evt = s.log.Warn()
	}

	evt.Str("action", string(in.Action)).
		Str("email", in.Email).
		Bool("succeeded", in.Succeeded)
	if in.Reason != "" {
		evt.Str("reason", in.Reason)
	}
	evt.Time("at", in.Timestamp).Msg("auth activity")

	return nil
}
