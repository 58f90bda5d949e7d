// Package web hosts bubble animators in a browser page through syscall/js.
//
// Canvases with the class "bubble-canvas" get element animators. A canvas
// with id "bubble-bg" gets a page background animator; its data-variant
// attribute picks "fullscreen" (default) or "parallax".
package web

import (
	"regexp"

	"github.com/san-kum/neonbubbles/internal/bubble"
)

const (
	ElementClass = "bubble-canvas"
	BackgroundID = "bubble-bg"
)

var mobileUA = regexp.MustCompile(`(?i)Mobi|Android`)

// ClassifyUserAgent reports the device class a user agent string implies.
func ClassifyUserAgent(ua string) bubble.DeviceClass {
	if mobileUA.MatchString(ua) {
		return bubble.Mobile
	}
	return bubble.Desktop
}

// BackgroundVariant maps the data-variant attribute of the background
// canvas to a variant. Unknown or empty values fall back to fullscreen;
// element is not a background variant.
func BackgroundVariant(attr string) bubble.Variant {
	v, err := bubble.ParseVariant(attr)
	if err != nil || v == bubble.Element {
		return bubble.Fullscreen
	}
	return v
}
