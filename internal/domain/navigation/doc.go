// Package navigation turns address-bar input into navigable URLs.
//
// Input is classified in three steps:
//   - Absolute URL with a recognised scheme: used as typed
//   - Bare domain (contains a dot, no whitespace): prefixed with https://
//   - Anything else: sent to the configured search engine as the q parameter
//
// The package also derives favicon guesses and host names from URLs. None of
// the helpers return errors; malformed input degrades to an empty result.
//
// Example Usage:
//
//	n := navigation.NewNormalizer(navigation.DefaultSearchURL)
//	n.Normalize("github.com")   // https://github.com
//	n.Normalize("cats")         // https://www.google.com/search?q=cats
package navigation
