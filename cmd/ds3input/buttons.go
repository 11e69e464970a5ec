package main

import "github.com/ds3gadget/ds3bridge/device/ds3"

var shorthand = map[string]ds3.Button{
	"x": ds3.ButtonCross, "cross": ds3.ButtonCross,
	"o": ds3.ButtonCircle, "circle": ds3.ButtonCircle,
	"s": ds3.ButtonSquare, "square": ds3.ButtonSquare,
	"t": ds3.ButtonTriangle, "triangle": ds3.ButtonTriangle,
	"u": ds3.ButtonUp, "up": ds3.ButtonUp,
	"d": ds3.ButtonDown, "down": ds3.ButtonDown,
	"l": ds3.ButtonLeft, "left": ds3.ButtonLeft,
	"r": ds3.ButtonRight, "right": ds3.ButtonRight,
	"start":  ds3.ButtonStart,
	"select": ds3.ButtonSelect,
	"ps":     ds3.ButtonPS,
	"l1":     ds3.ButtonL1, "l2": ds3.ButtonL2, "l3": ds3.ButtonL3,
	"r1": ds3.ButtonR1, "r2": ds3.ButtonR2, "r3": ds3.ButtonR3,
}

// lineToButton maps one lowercase, trimmed stdin line to a button press,
// the shorthand letters or the full button name.
func lineToButton(line string) (ds3.Button, bool) {
	b, ok := shorthand[line]
	return b, ok
}
