// Package session drives the deck list and deck detail views.
//
// A controller owns one view state and a mutex around it. Network calls run
// without the lock; each completed call applies exactly one reducer step
// from package deck and then fires the change callback with the new state.
// Load failures are only logged. Mutation failures go to the Notifier and
// leave the state as it was.
package session
