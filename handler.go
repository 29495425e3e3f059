// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package zkx

// A HandlerGroup is a group of event handler chains which can be
// installed in a Builder or a Client.
//
// Handlers must be added before the group is installed. A HandlerGroup
// is not safe for modification once in use.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("zkx: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, n *Notice) {
	if g == nil {
		return
	}
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, n)
	}
}

func run(chain []Handler, evt Event, n *Notice) {
	for _, h := range chain {
		h.Handle(evt, n)
	}
}

// A Handler handles the occurrence of an event during the lifecycle of
// a client.
type Handler interface {
	Handle(Event, *Notice)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *Notice)

// Handle calls f(evt, n).
func (f HandlerFunc) Handle(evt Event, n *Notice) {
	f(evt, n)
}
