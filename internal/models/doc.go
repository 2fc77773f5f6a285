// Package models holds the deck and word types shared by the store client,
// the view reducers and the user interfaces.
package models
