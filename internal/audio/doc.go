// Package audio synthesizes pronunciations and plays them through the
// platform's audio output.
package audio
