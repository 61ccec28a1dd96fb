// Copyright (c) 2025 Daniel Paiva.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify is the change-notification hub between mutating
handlers and the SSE streams.

Mutating handlers publish to a topic after the database write commits:

	hub.Publish(notify.TopicPautas)

A stream subscribes to the topics its projection depends on and
rereads full current state on every signal:

	sub := hub.Subscribe(notify.TopicSessions, notify.TopicPautas)
	defer sub.Cancel()
	for range sub.C { ... recompute and emit snapshot ... }

Delivery is at-least-once and coalescing: signals carry no payload,
a pending signal absorbs later ones, and Publish never blocks on a
slow consumer. Consumers therefore must treat every signal as
"current full state", never as a delta — which is also why the topics
are coarse (all sessions, all pautas) rather than per-document.
*/
package notify
