package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ds3gadget/ds3bridge/device/ds3"
)

func TestLineToButtonShorthandAndFullName(t *testing.T) {
	cases := map[string]ds3.Button{
		"x":        ds3.ButtonCross,
		"cross":    ds3.ButtonCross,
		"o":        ds3.ButtonCircle,
		"u":        ds3.ButtonUp,
		"start":    ds3.ButtonStart,
		"l1":       ds3.ButtonL1,
		"ps":       ds3.ButtonPS,
	}
	for line, want := range cases {
		got, ok := lineToButton(line)
		assert.True(t, ok, line)
		assert.Equal(t, want, got, line)
	}
}

func TestLineToButtonUnrecognized(t *testing.T) {
	_, ok := lineToButton("banana")
	assert.False(t, ok)
}
