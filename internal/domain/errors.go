package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrCatalogEmpty signals a catalog with no dishes.
	ErrCatalogEmpty = errors.New("catalog is empty")
	// ErrMalformedEnrichment signals an enrichment response that is not the
	// expected JSON shape. Recovered locally, never surfaced to the caller.
	ErrMalformedEnrichment = errors.New("malformed enrichment response")
	// ErrEnrichmentProvider signals a transport/auth/timeout failure from the
	// enrichment provider. Recovered locally, never surfaced to the caller.
	ErrEnrichmentProvider = errors.New("enrichment provider error")
	// ErrEnrichmentDisabled signals that no enrichment provider is configured.
	ErrEnrichmentDisabled = errors.New("enrichment disabled")
)
