package fdt

// Option configures a Decode or DecodeStreaming call.
type Option func(*decodeConfig)

type decodeConfig struct {
	minVersion uint32
	dupHandler func(phandle uint32, path string)
}

func newDecodeConfig() *decodeConfig {
	return &decodeConfig{minVersion: 17}
}

// WithMinVersion raises the minimum accepted header version above the
// format floor of 17. Rejects with UnsupportedVersion at decode time if
// the blob's version is lower.
func WithMinVersion(v uint32) Option {
	return func(c *decodeConfig) { c.minVersion = v }
}

// WithDuplicatePhandleHandler registers a callback invoked once for every
// repeated definition of a phandle value while building the tree. The first
// definition always wins in the phandle index regardless of whether a
// handler is registered (§9 Open Questions: duplicate policy).
func WithDuplicatePhandleHandler(h func(phandle uint32, path string)) Option {
	return func(c *decodeConfig) { c.dupHandler = h }
}
