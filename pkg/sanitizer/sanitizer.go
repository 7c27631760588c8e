package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// SanitizeTitle normalizes whitespace in a listing title.
func SanitizeTitle(input string) string {
	return TrimAndNormalize(input)
}

// SanitizeAddress keeps the address as typed, collapsing whitespace only.
func SanitizeAddress(input string) string {
	return TrimAndNormalize(input)
}

// SanitizeCity lowercases for consistent search filtering.
func SanitizeCity(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
	}
	return p.Apply(input)
}

func SanitizeRequirements(input string) string {
	return TrimAndNormalize(input)
}

// SanitizePhotoURLs normalizes each URL, dropping empties and duplicates
// while preserving order.
func SanitizePhotoURLs(urls []string) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, u := range urls {
		s := NormalizeURL(u)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
