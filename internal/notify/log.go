package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the log. It is used when no message
// broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	l.logger.InfoContext(ctx, "notification",
		slog.String("kind", string(n.Kind)),
		slog.String("sponsorship_id", n.SponsorshipID),
		slog.String("sponsor_id", n.SponsorID),
		slog.String("beneficiary_id", n.BeneficiaryID),
		slog.Any("detail", n.Detail),
	)
}
