// Package gui is the fyne desktop client: a deck list screen and a deck
// detail screen with a flip card, word rows and add/edit dialogs.
//
// Controller calls run on goroutines. Every state change arrives through
// the controllers' change callbacks and is rendered inside fyne.Do.
package gui
