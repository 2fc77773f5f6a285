// Package translation turns free text into a translation plus the detected
// source language. The deck service is the default backend; OpenAI chat
// completions can be configured instead.
package translation
