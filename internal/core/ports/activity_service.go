package ports

import (
	"context"
	"time"

	"github.com/spectra-labs/spectra-api/internal/core/domain"
)

// ActivityInput is the DTO passed from the transport layer to the activity
// pipeline. Activity is telemetry only; the auth core stays the sole writer
// to the record store.
type ActivityInput struct {
	Email     string
	Action    domain.ActivityAction
	Succeeded bool
	Reason    string // failure reason, empty on success
	Timestamp time.Time
}

// ActivityService records auth activity for observability.
type ActivityService interface {
	Process(ctx context.Context, in ActivityInput) error
}
