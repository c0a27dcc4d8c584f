package capability

import "strings"

// Kind is the closed set of resource kinds a reference can resolve to
type Kind int

const (
	// Image is served as opaque bytes
	Image Kind = iota
	// Source is a convertible document re-rendered on every fetch
	Source
	// AlreadyMediated references carry a capability URL and are left untouched
	AlreadyMediated
)

// Wire prefixes for mediated URLs
const (
	ImagePrefix  = "image?"
	SourcePrefix = "source?"
)

// String returns the kind name used in logs, metrics and signed payloads
func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case Source:
		return "source"
	case AlreadyMediated:
		return "mediated"
	default:
		return "unknown"
	}
}

// Prefix returns the wire prefix for servable kinds, empty otherwise
func (k Kind) Prefix() string {
	switch k {
	case Image:
		return ImagePrefix
	case Source:
		return SourcePrefix
	default:
		return ""
	}
}

// Endpoint returns the route name the kind is served from
func (k Kind) Endpoint() string {
	return strings.TrimSuffix(k.Prefix(), "?")
}

// IsMediated reports whether ref already starts with a recognised mediated prefix
func IsMediated(ref string) bool {
	return strings.HasPrefix(ref, ImagePrefix) || strings.HasPrefix(ref, SourcePrefix)
}
