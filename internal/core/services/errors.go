package services

import "errors"

var (
	// ErrUnknownProvider is returned for ids absent from the registry.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoProvidersAvailable is returned by GenerateMany when the
	// requested set has no intersection with the configured providers.
	// It is raised before any network activity.
	ErrNoProvidersAvailable = errors.New("no providers available")
)
