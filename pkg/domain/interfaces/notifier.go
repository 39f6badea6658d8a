package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Notifier announces risk register events to people outside the application
type Notifier interface {
	NotifyHighRisk(ctx context.Context, project *model.Project, entry *model.RiskEntry) error
}
