package delivery

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

const (
	statusMessage   = "Reddit analysis complete. Sending the report."
	documentCaption = "Reddit analysis report"
)

// Dispatcher delivers the report over the messaging channel. Once a delivery
// is attempted, the local report file is always removed afterward, whatever
// the send outcome.
type Dispatcher struct {
	messenger ports.Messenger
	logger    *slog.Logger
}

var _ ports.Dispatcher = (*Dispatcher)(nil)

// NewDispatcher wraps a messenger; a nil messenger means no channel is
// configured and every delivery is skipped.
func NewDispatcher(messenger ports.Messenger, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{messenger: messenger, logger: logger}
}

// Deliver sends a status text, then the report file as a document. If the
// status message fails the document is not attempted. The local artifact is
// deleted after any attempted delivery; without a channel the file is left
// untouched.
func (d *Dispatcher) Deliver(ctx context.Context, report domain.Report) domain.DeliveryOutcome {
	if d.messenger == nil {
		d.info("delivery skipped: no channel configured")
		return domain.DeliveryOutcome{Skipped: true}
	}

	defer d.cleanup(report.Path)

	var outcome domain.DeliveryOutcome
	if err := d.messenger.SendMessage(ctx, statusMessage); err != nil {
		d.error("send status message", "error", err)
		outcome.Err = err
		return outcome
	}
	outcome.MessageSent = true

	if err := d.messenger.SendDocument(ctx, report.Path, documentCaption); err != nil {
		d.error("send report document", "error", err)
		outcome.Err = err
		return outcome
	}
	outcome.DocumentSent = true

	return outcome
}

// Notify sends a plain text message; without a channel it is a no-op.
func (d *Dispatcher) Notify(ctx context.Context, text string) error {
	if d.messenger == nil {
		return nil
	}
	return d.messenger.SendMessage(ctx, text)
}

func (d *Dispatcher) cleanup(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		d.info("report file removed", "path", path)
	case errors.Is(err, fs.ErrNotExist):
	default:
		d.error("remove report file", "path", path, "error", err)
	}
}

func (d *Dispatcher) info(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Dispatcher) error(msg string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, args...)
	}
}
