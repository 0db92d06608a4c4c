// Package tray provides a system tray interface for the Holoview gesture engine.
package tray

import (
	"fmt"
	"math"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle   func(enabled bool)
	onReset    func()
	onSettings func()
	onQuit     func()
	enabled    bool
	lastTitle  string
	viewTitle  string
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuView        *systray.MenuItem
}

// New creates a new Tray instance with enabled state set to true by default.
func New() *Tray {
	return &Tray{
		enabled:   true,
		lastTitle: gestureTitle(gesture.NoEvent()),
		viewTitle: viewTitle(control.State{Zoom: 1}),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnReset sets the callback function to be called when "Reset View" is clicked.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnSettings sets the callback function to be called when the viewer menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Holoview")
	systray.SetTooltip("Holoview Gesture Control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture input")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem(t.lastTitle, "Last detected gesture")
	t.menuLastGesture.Disable()
	t.menuView = systray.AddMenuItem(t.viewTitle, "Current view")
	t.menuView.Disable()
	t.mu.Unlock()

	menuReset := systray.AddMenuItem("Reset View", "Reset zoom and rotation")
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open Viewer...", "Open the viewer in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Holoview")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleSettings handles the viewer menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEnabled syncs the toggle with a change made elsewhere, such as the
// HTTP API. The toggle callback is not called.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// Update shows the outcome of a processed frame. None events leave the
// last gesture in place so the menu does not flicker between frames.
func (t *Tray) Update(u engine.Update) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !u.Event.IsNone() {
		t.lastTitle = gestureTitle(u.Event)
		if t.menuLastGesture != nil {
			t.menuLastGesture.SetTitle(t.lastTitle)
		}
	}

	t.viewTitle = viewTitle(u.State)
	if t.menuView != nil {
		t.menuView.SetTitle(t.viewTitle)
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// LastGesture returns the text shown for the last gesture.
func (t *Tray) LastGesture() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastTitle
}

// View returns the text shown for the current view.
func (t *Tray) View() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.viewTitle
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func gestureTitle(ev gesture.Event) string {
	if ev.IsNone() {
		return "Last: none"
	}
	return fmt.Sprintf("Last: %s %s (%.0f%%)", ev.Kind().Icon(), ev.Kind().Label(), ev.Confidence()*100)
}

func viewTitle(s control.State) string {
	degrees := s.Rotation * 180 / math.Pi
	title := fmt.Sprintf("Zoom %.2fx · Rotation %.0f°", s.Zoom, degrees)
	if s.Exploded {
		title += " · Exploded"
	}
	return title
}
