package content

import "strings"

// Substitute returns a copy of n with every Token in its text leaves
// replaced by city. The input tree is never modified. Scalars and unknown
// node types are returned as is.
func Substitute(n Node, city string) Node {
	switch t := n.(type) {
	case String:
		return String(strings.ReplaceAll(string(t), Token, city))
	case Seq:
		if t == nil {
			return Seq(nil)
		}
		out := make(Seq, len(t))
		for i, item := range t {
			out[i] = Substitute(item, city)
		}
		return out
	case Map:
		if t == nil {
			return Map(nil)
		}
		out := make(Map, len(t))
		for i, f := range t {
			out[i] = Field{Key: f.Key, Value: Substitute(f.Value, city)}
		}
		return out
	default:
		return n
	}
}

// SubstituteText applies the same replacement to a bare string.
func SubstituteText(s, city string) string {
	return strings.ReplaceAll(s, Token, city)
}
