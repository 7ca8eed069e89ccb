package entity

import "errors"

var (
	// Host errors
	ErrInvalidHostID    = errors.New("invalid host id")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrMissingHostNames = errors.New("first name and last name are required")

	// Property errors
	ErrInvalidPropertyID   = errors.New("invalid property id")
	ErrInvalidPropertyName = errors.New("property name is required")
	ErrMissingAddress      = errors.New("address, city and country are required")
	ErrInvalidTone         = errors.New("tone must be one of welcoming, professional, casual, warm")

	// Catalog errors
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingContent     = errors.New("content is required")
	ErrMissingServiceName = errors.New("service name is required")
	ErrNegativePrice      = errors.New("price must not be negative")
	ErrInvalidStep        = errors.New("step number must be positive")

	// Conversation / message errors
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrInvalidMessageID      = errors.New("invalid message id")
	ErrInvalidRole           = errors.New("invalid message role")
	ErrEmptyContent          = errors.New("message content is required")
	ErrMissingMedia          = errors.New("image messages require a media reference")

	// Issue errors
	ErrMissingDescription = errors.New("description is required")
)
