package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashString(t *testing.T) {
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashString("abc"))
}

func TestHashEmail_Normalises(t *testing.T) {
	assert.Equal(t, HashEmail("ada@example.com"), HashEmail("  Ada@Example.COM "))
	assert.NotEqual(t, HashEmail("ada@example.com"), HashEmail("grace@example.com"))
	assert.Len(t, HashEmail("ada@example.com"), 64)
}
