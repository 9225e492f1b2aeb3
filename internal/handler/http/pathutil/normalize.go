// Package pathutil provides URL path helpers for HTTP handlers.
package pathutil

import "strings"

// NormalizePath replaces path parameters with placeholders so metric labels
// stay low-cardinality. Platform and username segments would otherwise create
// one label value per account ever requested.
//
// Examples:
//
//	/followings/platforms/MEDIUM/users/alice -> /followings/platforms/:platform/users/:username
//	/contents/platforms/X/users/bob          -> /contents/platforms/:platform/users/:username
func NormalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments); i++ {
		switch segments[i] {
		case "platforms":
			if i+1 < len(segments) && segments[i+1] != "" {
				segments[i+1] = ":platform"
			}
		case "users":
			if i+1 < len(segments) && segments[i+1] != "" {
				segments[i+1] = ":username"
			}
		}
	}
	return strings.Join(segments, "/")
}
