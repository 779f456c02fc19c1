// Package view renders an observable list of strings on a terminal.
//
// A View registers as a listener on its list and redraws after every
// event, adjusting its scroll offset so the rows on screen stay put when
// items are inserted or removed above them. All View methods must run on
// the goroutine that owns the list; Run forwards terminal input there.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/rangelist/internal/change"
	"github.com/dshills/rangelist/internal/list"
	"github.com/dshills/rangelist/internal/observe"
)

// View is a scrolling list display.
type View struct {
	screen tcell.Screen
	list   list.List[string]
	sub    *observe.Subscription[change.Listener]

	top    int
	status func() string

	style       tcell.Style
	statusStyle tcell.Style

	onEvent func(change.Event)
}

// Option configures a View.
type Option func(*View)

// WithStatus replaces the default status line text.
func WithStatus(fn func() string) Option {
	return func(v *View) {
		v.status = fn
	}
}

// WithStyles sets the item and status line styles.
func WithStyles(item, status tcell.Style) Option {
	return func(v *View) {
		v.style = item
		v.statusStyle = status
	}
}

// WithEventHook is called with every list event before the redraw.
func WithEventHook(fn func(change.Event)) Option {
	return func(v *View) {
		v.onEvent = fn
	}
}

// New binds l to an initialized screen and draws it.
func New(screen tcell.Screen, l list.List[string], opts ...Option) *View {
	v := &View{
		screen:      screen,
		list:        l,
		style:       tcell.StyleDefault,
		statusStyle: tcell.StyleDefault.Reverse(true),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.sub = list.Subscribe(l, change.OnEvent(v.handleChange))
	v.Render()
	return v
}

// Close unregisters the view from its list.
func (v *View) Close() {
	v.sub.Unsubscribe()
}

// ID returns the identifier of the view's list subscription.
func (v *View) ID() string {
	return v.sub.ID()
}

// Top returns the index of the first visible item.
func (v *View) Top() int {
	return v.top
}

// Rows returns the number of item rows, excluding the status line.
func (v *View) Rows() int {
	_, h := v.screen.Size()
	return max(h-1, 0)
}

func (v *View) handleChange(e change.Event) {
	if v.onEvent != nil {
		v.onEvent(e)
	}

	switch e.Kind {
	case change.KindInserted:
		if e.Start < v.top {
			v.top += e.Count
		}
	case change.KindRemoved:
		if e.End() <= v.top {
			v.top -= e.Count
		} else if e.Start < v.top {
			v.top = e.Start
		}
	}
	v.Render()
}

// Scroll moves the view by delta rows.
func (v *View) Scroll(delta int) {
	v.top += delta
	v.Render()
}

// Render redraws the screen.
func (v *View) Render() {
	v.clamp()
	v.screen.Clear()

	w, _ := v.screen.Size()
	rows := v.Rows()
	for row := range rows {
		item, err := v.list.Get(v.top + row)
		if err != nil {
			break
		}
		v.drawText(0, row, w, item, v.style)
	}

	text := v.statusText()
	for x := range w {
		v.screen.SetContent(x, rows, ' ', nil, v.statusStyle)
	}
	v.drawText(0, rows, w, text, v.statusStyle)
	v.screen.Show()
}

func (v *View) clamp() {
	v.top = min(v.top, v.list.Size()-v.Rows())
	v.top = max(v.top, 0)
}

func (v *View) statusText() string {
	if v.status != nil {
		return v.status()
	}
	size := v.list.Size()
	if size == 0 {
		return "empty"
	}
	last := min(v.top+v.Rows(), size)
	return fmt.Sprintf("%d-%d of %d", v.top+1, last, size)
}

func (v *View) drawText(x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// HandleEvent applies a terminal event and reports whether the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.Render()

	case *tcell.EventKey:
		page := max(v.Rows()-1, 1)
		switch e.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.Scroll(-1)
		case tcell.KeyDown:
			v.Scroll(1)
		case tcell.KeyPgUp:
			v.Scroll(-page)
		case tcell.KeyPgDn:
			v.Scroll(page)
		case tcell.KeyHome:
			v.top = 0
			v.Render()
		case tcell.KeyEnd:
			v.top = v.list.Size()
			v.Render()
		case tcell.KeyRune:
			switch e.Rune() {
			case 'q':
				return true
			case 'k':
				v.Scroll(-1)
			case 'j':
				v.Scroll(1)
			case ' ':
				v.Scroll(page)
			}
		}
	}
	return false
}

// Run reads terminal input and hands each event to post so that it is
// applied on the list's goroutine. It returns when the user quits or ctx
// is done. The reader goroutine exits once the caller finalizes the
// screen.
func (v *View) Run(ctx context.Context, post func(func()) error) error {
	quit := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(quit) }) }

	errc := make(chan error, 1)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			err := post(func() {
				if v.HandleEvent(ev) {
					stop()
				}
			})
			if err != nil {
				errc <- fmt.Errorf("post input: %w", err)
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case <-quit:
		return nil
	case err := <-errc:
		return err
	}
}
