package payflow

import "time"

// Clipboard abstracts the host clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// CopyButton is the copy-to-clipboard affordance on the payment page: it
// copies the destination account number and shows a "Copied" acknowledgment
// for a fixed window before reverting. It never touches the payment flow.
type CopyButton struct {
	clip   Clipboard
	ackFor time.Duration
	now    func() time.Time

	copiedUntil time.Time
}

func NewCopyButton(clip Clipboard) *CopyButton {
	return &CopyButton{
		clip:   clip,
		ackFor: 2 * time.Second,
		now:    time.Now,
	}
}

func (b *CopyButton) Copy(text string) error {
	if err := b.clip.WriteText(text); err != nil {
		return err
	}
	b.copiedUntil = b.now().Add(b.ackFor)
	return nil
}

// Copied reports whether the acknowledgment is still showing.
func (b *CopyButton) Copied() bool {
	return b.now().Before(b.copiedUntil)
}
