package media

import (
	"strings"
)

// Resolver turns chart image references into displayable URLs.
// Absolute http(s) URLs pass through, empty references become the placeholder,
// and anything else is treated as a path under the storage base URL.
type Resolver struct {
	storageBaseURL string
	placeholder    string
}

// NewResolver creates a resolver for the given storage base URL and placeholder asset
func NewResolver(storageBaseURL, placeholder string) *Resolver {
	return &Resolver{
		storageBaseURL: strings.TrimRight(strings.TrimSpace(storageBaseURL), "/"),
		placeholder:    placeholder,
	}
}

// Placeholder returns the asset used when no image is available
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Resolve returns the URL for ref
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return r.placeholder
	}

	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(ref, "//") {
		return ref
	}

	path := strings.TrimLeft(ref, "/")
	if r.storageBaseURL == "" {
		return "/" + path
	}
	return r.storageBaseURL + "/" + path
}
