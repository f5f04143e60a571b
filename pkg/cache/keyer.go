package cache

// ReportKeyOpts are the inputs besides the library that change a report.
type ReportKeyOpts struct {
	// Version is the renderer version; bump it whenever the output format
	// changes so stale reports are never served.
	Version string `json:"version"`
}

// GraphKeyOpts are the inputs besides the library that change a diagram.
type GraphKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
	Expand   bool   `json:"expand"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ReportKey identifies the text report of one material of a library.
	ReportKey(libraryHash, material string, opts ReportKeyOpts) string
	// GraphKey identifies a node-link diagram of one material of a library.
	GraphKey(libraryHash, material string, opts GraphKeyOpts) string
}

// DefaultKeyer hashes all key components.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(libraryHash, material string, opts ReportKeyOpts) string {
	return hashKey("report", libraryHash, material, opts)
}

// GraphKey implements Keyer.
func (DefaultKeyer) GraphKey(libraryHash, material string, opts GraphKeyOpts) string {
	return hashKey("graph", libraryHash, material, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so several consumers can share
// one backend without colliding, e.g. the CLI and the server on one Redis.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "srv:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey implements Keyer.
func (k *ScopedKeyer) ReportKey(libraryHash, material string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(libraryHash, material, opts)
}

// GraphKey implements Keyer.
func (k *ScopedKeyer) GraphKey(libraryHash, material string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(libraryHash, material, opts)
}
