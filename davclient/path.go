package davclient

import "strings"

// removeDoubleSlashes collapses runs of '/' into one. The "//" following a
// URL scheme is kept.
func removeDoubleSlashes(p string) string {
	prefix := ""
	if i := strings.Index(p, "://"); i > 0 && !strings.Contains(p[:i], "/") {
		prefix, p = p[:i+3], p[i+3:]
	}

	var b strings.Builder
	b.Grow(len(p))
	lastSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if lastSlash {
				continue
			}
			lastSlash = true
		} else {
			lastSlash = false
		}
		b.WriteByte(c)
	}
	return prefix + b.String()
}
