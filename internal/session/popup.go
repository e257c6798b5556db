package session

// DragState is the popup drag machine state.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
)

// Popup is the draggable color-picker overlay.
//
// Dragging uses pointer-delta tracking: the grab offset inside the popup is
// recorded on press and preserved while moving, and the position is clamped
// to the viewport on every move. The machine is idle -> dragging -> idle;
// move/release input arriving while idle is ignored (handlers are installed
// once for the page lifetime and guarded by the state, not detached).
type Popup struct {
	x, y          int
	width, height int
	viewW, viewH  int
	state         DragState
	grabX, grabY  int
	visible       bool
}

// NewPopup creates a popup of the given size positioned at the viewport origin.
func NewPopup(width, height int) *Popup {
	return &Popup{width: width, height: height}
}

// SetViewport updates the bounds the popup is clamped within.
func (p *Popup) SetViewport(w, h int) {
	p.viewW = w
	p.viewH = h
	p.x, p.y = p.clamp(p.x, p.y)
}

// Show makes the popup visible. Successive picks keep it open.
func (p *Popup) Show() { p.visible = true }

// Hide dismisses the popup and cancels any drag in progress.
func (p *Popup) Hide() {
	p.visible = false
	p.state = DragIdle
}

// Visible reports whether the popup is shown.
func (p *Popup) Visible() bool { return p.visible }

// Position returns the top-left corner.
func (p *Popup) Position() (int, int) { return p.x, p.y }

// State returns the drag machine state.
func (p *Popup) State() DragState { return p.state }

// Contains reports whether a viewport point falls inside the popup.
func (p *Popup) Contains(px, py int) bool {
	return p.visible &&
		px >= p.x && px < p.x+p.width &&
		py >= p.y && py < p.y+p.height
}

// Press starts a drag when the pointer lands inside the popup.
func (p *Popup) Press(px, py int) {
	if !p.Contains(px, py) {
		return
	}
	p.state = Dragging
	p.grabX = px - p.x
	p.grabY = py - p.y
}

// Move repositions the popup while dragging, clamped to the viewport.
// Ignored while idle.
func (p *Popup) Move(px, py int) {
	if p.state != Dragging {
		return
	}
	p.x, p.y = p.clamp(px-p.grabX, py-p.grabY)
}

// Release ends the drag.
func (p *Popup) Release() { p.state = DragIdle }

func (p *Popup) clamp(x, y int) (int, int) {
	maxX := p.viewW - p.width
	maxY := p.viewH - p.height
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	if x < 0 {
		x = 0
	} else if x > maxX {
		x = maxX
	}
	if y < 0 {
		y = 0
	} else if y > maxY {
		y = maxY
	}
	return x, y
}
