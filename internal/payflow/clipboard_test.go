package payflow

import (
	"errors"
	"testing"
	"time"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func TestCopyButtonAcknowledgmentWindow(t *testing.T) {
	clip := &fakeClipboard{}
	btn := NewCopyButton(clip)

	now := time.Unix(0, 0)
	btn.now = func() time.Time { return now }

	if btn.Copied() {
		t.Fatalf("fresh button should not show acknowledgment")
	}
	if err := btn.Copy("01700000000"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if clip.text != "01700000000" {
		t.Fatalf("clipboard got %q", clip.text)
	}
	if !btn.Copied() {
		t.Fatalf("acknowledgment should show right after copy")
	}

	now = now.Add(2*time.Second - time.Millisecond)
	if !btn.Copied() {
		t.Fatalf("acknowledgment should still show inside the window")
	}

	now = now.Add(2 * time.Millisecond)
	if btn.Copied() {
		t.Fatalf("acknowledgment should revert after the window")
	}
}

func TestCopyButtonWriteFailure(t *testing.T) {
	btn := NewCopyButton(&fakeClipboard{err: errors.New("denied")})
	btn.now = func() time.Time { return time.Unix(0, 0) }

	if err := btn.Copy("01700000000"); err == nil {
		t.Fatalf("expected error from clipboard")
	}
	if btn.Copied() {
		t.Fatalf("failed copy must not show acknowledgment")
	}
}
