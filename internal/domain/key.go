package domain

import (
	"strings"
)

type Variant string

const (
	Variant24p Variant = "24p"
	Variant12p Variant = "12p"
)

// ParseVariant maps the raw game query value to a Variant. Only the exact
// string "12p" selects the 12-player pool; everything else, including empty,
// "12P" and " 12p", is 24p.
func ParseVariant(raw string) Variant {
	if raw == string(Variant12p) {
		return Variant12p
	}
	return Variant24p
}

// UpstreamTag is the lounge "game" parameter for the variant.
func (v Variant) UpstreamTag() string {
	if v == Variant12p {
		return "mkworld12p"
	}
	return "mkworld24p"
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CacheKey derives the canonical key for a player lookup, e.g.
// "  Foo " + "12p" -> "foo:mkworld12p".
func CacheKey(name, variant string) string {
	return Key(name, ParseVariant(variant))
}

func Key(name string, variant Variant) string {
	return NormalizeName(name) + ":" + variant.UpstreamTag()
}
