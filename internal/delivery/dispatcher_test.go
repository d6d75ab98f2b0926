package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"redditdigest/internal/domain"
)

type fakeMessenger struct {
	messageErr  error
	documentErr error

	messages  []string
	documents []string
}

func (f *fakeMessenger) SendMessage(ctx context.Context, text string) error {
	f.messages = append(f.messages, text)
	return f.messageErr
}

func (f *fakeMessenger) SendDocument(ctx context.Context, path, caption string) error {
	f.documents = append(f.documents, path)
	return f.documentErr
}

func writeTempReport(t *testing.T) domain.Report {
	t.Helper()
	path := filepath.Join(t.TempDir(), "search_20260302_120000.md")
	if err := os.WriteFile(path, []byte("# report\n"), 0o644); err != nil {
		t.Fatalf("write temp report: %v", err)
	}
	return domain.Report{Path: path, Title: "report"}
}

func TestDeliverSendsAndRemovesFile(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	dispatcher := NewDispatcher(messenger, nil)
	report := writeTempReport(t)

	outcome := dispatcher.Deliver(context.Background(), report)

	if !outcome.MessageSent || !outcome.DocumentSent || outcome.Err != nil {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if len(messenger.messages) != 1 || len(messenger.documents) != 1 {
		t.Fatalf("expected one message and one document send")
	}
	if _, err := os.Stat(report.Path); !os.IsNotExist(err) {
		t.Fatalf("report file still exists after delivery")
	}
}

func TestDeliverRemovesFileWhenMessageFails(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{messageErr: fmt.Errorf("chat not found")}
	dispatcher := NewDispatcher(messenger, nil)
	report := writeTempReport(t)

	outcome := dispatcher.Deliver(context.Background(), report)

	if outcome.Err == nil || outcome.MessageSent {
		t.Fatalf("expected failed message outcome, got %+v", outcome)
	}
	if len(messenger.documents) != 0 {
		t.Fatalf("document send attempted after failed status message")
	}
	if _, err := os.Stat(report.Path); !os.IsNotExist(err) {
		t.Fatalf("report file left behind after failed delivery")
	}
}

func TestDeliverRemovesFileWhenDocumentFails(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{documentErr: fmt.Errorf("file too big")}
	dispatcher := NewDispatcher(messenger, nil)
	report := writeTempReport(t)

	outcome := dispatcher.Deliver(context.Background(), report)

	if outcome.Err == nil || !outcome.MessageSent || outcome.DocumentSent {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
	if _, err := os.Stat(report.Path); !os.IsNotExist(err) {
		t.Fatalf("report file left behind after failed document send")
	}
}

func TestDeliverSkipsWithoutChannel(t *testing.T) {
	t.Parallel()

	dispatcher := NewDispatcher(nil, nil)
	report := writeTempReport(t)

	outcome := dispatcher.Deliver(context.Background(), report)

	if !outcome.Skipped {
		t.Fatalf("expected skipped outcome, got %+v", outcome)
	}
	// Cleanup only happens when delivery was attempted.
	if _, err := os.Stat(report.Path); err != nil {
		t.Fatalf("report file should be left untouched: %v", err)
	}
}

func TestNotifyWithoutChannelIsNoOp(t *testing.T) {
	t.Parallel()

	dispatcher := NewDispatcher(nil, nil)
	if err := dispatcher.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify without channel returned %v", err)
	}
}
