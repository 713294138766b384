package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a@x.com"}, splitList("a@x.com"))
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, splitList(" a@x.com , b@y.com ,"))
}

func TestParseCredentials(t *testing.T) {
	creds := parseCredentials("a@x.com:$2a$10$abc,b@y.com:$2a$10$def")
	assert.Equal(t, "$2a$10$abc", creds["a@x.com"])
	assert.Equal(t, "$2a$10$def", creds["b@y.com"])

	assert.Empty(t, parseCredentials(""))
	assert.Empty(t, parseCredentials("no-colon-here"))
}
