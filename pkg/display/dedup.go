package display

import "github.com/benmeehan/otp-display/internal/models"

// DedupRenderer skips status redraws when the message did not change.
type DedupRenderer struct {
	next Renderer
	last *StatusMessage
}

func NewDedupRenderer(next Renderer) *DedupRenderer {
	return &DedupRenderer{next: next}
}

func (r *DedupRenderer) RenderStatus(header, body string) error {
	msg := NewStatusMessage(header, body)
	if r.last != nil && *r.last == msg {
		return nil
	}
	if err := r.next.RenderStatus(msg.Header, msg.Body); err != nil {
		return err
	}
	r.last = &msg
	return nil
}

// RenderOTPGrid always draws and forgets the last status, since the grid
// replaced it on screen.
func (r *DedupRenderer) RenderOTPGrid(layout *models.DisplayLayout) error {
	r.last = nil
	return r.next.RenderOTPGrid(layout)
}
