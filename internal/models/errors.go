package models

import "errors"

var (
	ErrDeckNameRequired     = errors.New("deck name is required")
	ErrDeckLanguageRequired = errors.New("deck language must be one of es, fr, de, it, pt, en")
)
