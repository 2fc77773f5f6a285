// Package deck holds the view state of the deck screens and the pure
// reducers that advance it. Reducers never mutate their input state and
// never perform I/O; the session package runs the remote calls and feeds
// the outcomes back in as events.
package deck
