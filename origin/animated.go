package origin

import "strings"

// AnimatedExt is the extension treated as an animated container.
const AnimatedExt = ".gif"

// Animated is a best-effort guess whether the image behind o is a frame
// sequence. It looks at the texture name, the origin's extension, and the MIME
// type of data URIs. It is a hint for the decoder, not a format contract: the
// decoder still sniffs the bytes before choosing the animated path.
func Animated(name string, o Origin) bool {
	if strings.HasSuffix(strings.ToLower(name), AnimatedExt) {
		return true
	}
	if o.kind == KindBytes {
		mime, _, ok := ParseDataURI(o.value)
		return ok && IsAnimatedMIME(mime)
	}
	return o.Ext() == AnimatedExt
}

// IsAnimatedMIME reports whether a MIME type names the animated format.
func IsAnimatedMIME(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "gif")
}
