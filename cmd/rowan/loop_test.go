package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowan-editor/rowan/internal/keys"
)

func TestDecodeKeysPlain(t *testing.T) {
	ks := decodeKeys([]byte("hi"))
	require.Len(t, ks, 2)
	assert.Equal(t, keys.New('h', false, false, false, false), ks[0])
	assert.Equal(t, keys.New('i', false, false, false, false), ks[1])
}

func TestDecodeKeysCtrl(t *testing.T) {
	ks := decodeKeys([]byte{0x17}) // Ctrl-W
	require.Len(t, ks, 1)
	assert.Equal(t, keys.New('w', false, false, false, true), ks[0])
}

func TestDecodeKeysAltPrefix(t *testing.T) {
	ks := decodeKeys([]byte{0x1b, 's'})
	require.Len(t, ks, 1)
	assert.Equal(t, keys.New('s', false, false, true, false), ks[0])
}

func TestDecodeKeysBareEscape(t *testing.T) {
	ks := decodeKeys([]byte{0x1b})
	require.Len(t, ks, 1)
	assert.Equal(t, rune(0x1b), ks[0].Key)
}

func TestProfileFromEnv(t *testing.T) {
	assert.True(t, profileFromEnv("kitty").kittyKeyboard)
	assert.False(t, profileFromEnv("no-kitty").kittyKeyboard)
	assert.False(t, profileFromEnv("default").kittyKeyboard)

	basic := profileFromEnv("basic")
	assert.True(t, basic.altScreen)
	assert.False(t, basic.sgrMouse)
}

func TestProfileEnterExitSymmetry(t *testing.T) {
	p := profileFromEnv("")
	assert.NotEmpty(t, p.Enter())
	assert.NotEmpty(t, p.Exit())
}
