// Package processor runs the flashdeck commands. It builds the store
// client, translation and speech providers and the audio player from the
// viper configuration and drives the session controllers for both the
// CLI commands and the GUI.
package processor
