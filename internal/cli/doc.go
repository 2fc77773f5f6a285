// Package cli provides the command-line interface of flashdeck: the cobra
// command tree, its flags, and configuration through viper, environment
// variables and an optional .env file.
package cli
