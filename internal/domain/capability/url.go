package capability

import (
	"net/url"
	"strings"
)

// Query parameter names on the wire
const (
	ParamFile        = "file"
	ParamMAC         = "mac"
	ParamHash        = "hash"
	ParamProjectURL  = "projectUrl"
	ParamProjectName = "projectName"
)

// Param is one advisory query parameter carried after the signature
type Param struct {
	Key   string
	Value string
}

// URL is a signed, type-tagged reference to a local file.
// Only Kind and Path take part in authorization; Hash and Extra are advisory.
type URL struct {
	Kind      Kind
	Path      string
	Signature string
	Hash      string
	Extra     []Param
	Fragment  string // Raw fragment re-attached after the query, without '#'
}

// Issue signs path for kind and returns the capability URL
func Issue(s *Signer, kind Kind, path string) URL {
	return URL{
		Kind:      kind,
		Path:      path,
		Signature: s.SignKind(kind, path),
	}
}

// WithHash sets the cache-busting fingerprint
func (u URL) WithHash(hash string) URL {
	u.Hash = hash
	return u
}

// WithParam appends an advisory parameter
func (u URL) WithParam(key, value string) URL {
	u.Extra = append(append([]Param(nil), u.Extra...), Param{Key: key, Value: value})
	return u
}

// String renders the URL for embedding in an HTML attribute value.
// Parameter separators are entity-escaped; the path is query-escaped so the
// result never contains a colon or quote.
func (u URL) String() string {
	var b strings.Builder
	b.WriteString(u.Kind.Prefix())
	writeParam(&b, ParamFile, u.Path, true)
	writeParam(&b, ParamMAC, u.Signature, false)
	if u.Hash != "" {
		writeParam(&b, ParamHash, u.Hash, false)
	}
	for _, p := range u.Extra {
		writeParam(&b, p.Key, p.Value, false)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// Verify checks the URL's signature against its kind and path
func (u URL) Verify(s *Signer) bool {
	return s.VerifyKind(u.Kind, u.Path, u.Signature)
}

// ParseQuery rebuilds a capability URL from an inbound request's query for the given endpoint kind
func ParseQuery(kind Kind, q url.Values) URL {
	u := URL{
		Kind:      kind,
		Path:      q.Get(ParamFile),
		Signature: q.Get(ParamMAC),
		Hash:      q.Get(ParamHash),
	}
	for _, key := range []string{ParamProjectURL, ParamProjectName} {
		if v := q.Get(key); v != "" {
			u.Extra = append(u.Extra, Param{Key: key, Value: v})
		}
	}
	return u
}

// Param returns the value of an advisory parameter, or empty
func (u URL) Param(key string) string {
	for _, p := range u.Extra {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

func writeParam(b *strings.Builder, key, value string, first bool) {
	if !first {
		b.WriteString("&amp;")
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}
