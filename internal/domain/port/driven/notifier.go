package driven

import (
	"context"

	"github.com/ericfisherdev/safehub/internal/domain/model"
)

// AlarmNotifier defines the driven port for pushing alarm notifications when
// a safe enters its error state. Implementations must tolerate being called
// from short-lived background goroutines.
type AlarmNotifier interface {
	NotifyError(ctx context.Context, safeName string, event model.PanelEvent) error
}
