package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyNormalizesCaseAndWhitespace(t *testing.T) {
	names := []string{"Foo Bar", "foo bar", "  FOO BAR  ", "\tfOo bAr\n"}
	want := CacheKey("foo bar", "")

	for _, name := range names {
		assert.Equal(t, want, CacheKey(name, ""), "name %q", name)
		assert.Equal(t, NormalizeName(name), NormalizeName(NormalizeName(name)))
	}
	assert.Equal(t, "foo bar:mkworld24p", want)
}

func TestCacheKeyVariant(t *testing.T) {
	assert.Equal(t, "foo:mkworld12p", CacheKey("Foo", "12p"))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", " 12P "))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", "12P"))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", " 12p"))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", "12p "))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", "24p"))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", ""))
	assert.Equal(t, "foo:mkworld24p", CacheKey("Foo", "both"))
}

func TestParseVariant(t *testing.T) {
	assert.Equal(t, Variant12p, ParseVariant("12p"))
	assert.Equal(t, Variant24p, ParseVariant("6p"))
	assert.Equal(t, "mkworld24p", ParseVariant("").UpstreamTag())
}
