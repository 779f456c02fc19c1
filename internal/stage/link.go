package stage

import "github.com/dshills/rangelist/internal/change"

// source is the registration half of list.List.
type source interface {
	RegisterListener(l change.Listener)
	UnregisterListener(l change.Listener)
}

// link holds one upstream registration. The owning stage opens it on its
// 0→1 listener transition and closes it on 1→0.
type link struct {
	upstream source
	listener change.Listener
	active   bool

	// onOpen runs after registering, before any upstream event arrives.
	onOpen func()
}

func newLink(upstream source, fn func(change.Event)) *link {
	return &link{upstream: upstream, listener: change.OnEvent(fn)}
}

func (k *link) open() {
	if k.active {
		return
	}
	k.active = true
	if k.onOpen != nil {
		k.onOpen()
	}
	k.upstream.RegisterListener(k.listener)
}

func (k *link) close() {
	if !k.active {
		return
	}
	k.active = false
	k.upstream.UnregisterListener(k.listener)
}

// links is a set of upstream registrations opened and closed together.
type links []*link

func (ls links) open() {
	for _, k := range ls {
		k.open()
	}
}

func (ls links) close() {
	for _, k := range ls {
		k.close()
	}
}

func (ls links) active() bool {
	return len(ls) > 0 && ls[0].active
}
