package davclient

import "fmt"

// Depth indicates how far into the collection hierarchy a REPORT applies.
// It's defined in RFC 4918 section 10.2.
type Depth int

const (
	// DepthZero applies the request to the target resource only
	DepthZero Depth = 0
	// DepthOne applies the request to the resource and its direct members
	DepthOne Depth = 1
	// DepthInfinity applies the request to the resource and all its members
	DepthInfinity Depth = -1
)

// ParseDepth parses a Depth header value
func ParseDepth(s string) (Depth, error) {
	switch s {
	case "0":
		return DepthZero, nil
	case "1":
		return DepthOne, nil
	case "infinity":
		return DepthInfinity, nil
	}
	return 0, fmt.Errorf("invalid Depth value %q", s)
}

// String formats the depth as a header value
func (d Depth) String() string {
	switch d {
	case DepthZero:
		return "0"
	case DepthOne:
		return "1"
	case DepthInfinity:
		return "infinity"
	}
	panic(fmt.Sprintf("invalid Depth value %d", int(d)))
}
