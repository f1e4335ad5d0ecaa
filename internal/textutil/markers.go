// Package textutil cleans provider artifacts out of model-generated text.
package textutil

import (
	"regexp"
	"strings"
)

const (
	// MarkerOpen and MarkerClose delimit inline citation spans emitted by
	// web-search enabled models, e.g. "\ue200cite\ue202turn0view0\ue201".
	MarkerOpen  = '\ue200'
	MarkerClose = '\ue201'
)

var markerSpan = regexp.MustCompile("\ue200[^\ue201]*\ue201")

// StripMarkers removes every complete citation span and trims surrounding
// whitespace. An opener with no closer is left as is. Spaces left behind by a
// removed span are not collapsed.
func StripMarkers(text string) string {
	if !strings.ContainsRune(text, MarkerOpen) {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(markerSpan.ReplaceAllString(text, ""))
}
