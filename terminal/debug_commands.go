package terminal

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lixenwraith/gridterm/graphics"
)

// debugCommand is one compiled script line
// run queues events on the backend or changes its verification state
type debugCommand interface {
	run(d *debugBackend)
}

type commandBuilder func(params []string) (debugCommand, error)

var commandBuilders = map[string]commandBuilder{
	"Mouse.Hold":         buildMouseButton(mouseHold),
	"Mouse.Release":      buildMouseButton(mouseRelease),
	"Mouse.Click":        buildMouseButton(mouseClick),
	"Mouse.DoubleClick":  buildMouseButton(mouseDoubleClick),
	"Mouse.Move":         buildMouseMove,
	"Mouse.Drag":         buildMouseDrag,
	"Mouse.Wheel":        buildMouseWheel,
	"Paint":              buildPaint,
	"Paint.Enable":       buildPaintEnable,
	"Error.Disable":      buildErrorDisable,
	"CheckHash":          buildCheckHash,
	"CheckCursor":        buildCheckCursor,
	"Resize":             buildResize,
	"Key.Pressed":        buildKeyPressed,
	"Key.TypeText":       buildKeyTypeText,
	"Key.Modifier":       buildKeyModifier,
	"Clipboard.SetText":  buildClipboardSetText,
	"Clipboard.Clear":    buildClipboardClear,
	"CheckClipboardText": buildCheckClipboardText,
}

// compileScript turns a script into commands, the first bad line aborts compilation
func compileScript(script string) ([]debugCommand, error) {
	var cmds []debugCommand
	for i, raw := range strings.Split(script, "\n") {
		text := strings.TrimSpace(raw)
		if isScriptComment(text) {
			continue
		}
		line, reason := parseScriptLine(text)
		if reason != "" {
			return nil, &ScriptError{Line: i + 1, Text: text, Reason: reason}
		}
		build, ok := commandBuilders[line.name]
		if !ok {
			return nil, &ScriptError{Line: i + 1, Text: text, Reason: "Unknown command: " + line.name}
		}
		cmd, err := build(line.params)
		if err != nil {
			return nil, &ScriptError{Line: i + 1, Text: text, Reason: err.Error()}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// --- Parameter helpers ---

func expectParams(name string, params []string, counts ...int) error {
	for _, c := range counts {
		if len(params) == c {
			return nil
		}
	}
	if len(counts) == 1 {
		return errors.Errorf("%s requires %d parameters", name, counts[0])
	}
	return errors.Errorf("%s requires %d or %d parameters", name, counts[0], counts[1])
}

func intParam(name string, params []string, i int, what string) (int, error) {
	v, err := strconv.Atoi(params[i])
	if err != nil {
		return 0, errors.Errorf("parameter %d of %s should be an integer (%s)", i+1, name, what)
	}
	return v, nil
}

func timesParam(name string, params []string, i int) (int, error) {
	if i >= len(params) {
		return 1, nil
	}
	v, err := strconv.Atoi(params[i])
	if err != nil || v < 1 {
		return 0, errors.Errorf("parameter %d of %s should be a positive number of times", i+1, name)
	}
	return v, nil
}

func boolParam(name string, params []string) (bool, error) {
	if err := expectParams(name, params, 1); err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(strings.ToLower(params[0]))
	if err != nil {
		return false, errors.Errorf("%s expects true or false", name)
	}
	return v, nil
}

func pointParams(name string, params []string, i int) (graphics.Point, error) {
	x, err := intParam(name, params, i, "x value")
	if err != nil {
		return graphics.Point{}, err
	}
	y, err := intParam(name, params, i+1, "y value")
	if err != nil {
		return graphics.Point{}, err
	}
	return graphics.Point{X: x, Y: y}, nil
}

// parseModifiers accepts "Alt+Ctrl+Shift" in any order, "None" or an empty string
func parseModifiers(s string) (KeyModifier, error) {
	var mod KeyModifier
	for _, p := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "alt":
			mod |= ModAlt
		case "ctrl", "control":
			mod |= ModCtrl
		case "shift":
			mod |= ModShift
		case "", "none":
		default:
			return ModNone, errors.Errorf("unknown modifier %q", p)
		}
	}
	return mod, nil
}

// keyCharacter is the character a terminal reports along with k
func keyCharacter(k Key) rune {
	if k.Modifier&(ModAlt|ModCtrl) != 0 {
		return 0
	}
	switch {
	case k.Code >= KeyA && k.Code <= KeyZ:
		if k.Modifier&ModShift != 0 {
			return 'A' + rune(k.Code-KeyA)
		}
		return 'a' + rune(k.Code-KeyA)
	case k.Code >= KeyN0 && k.Code <= KeyN9:
		return '0' + rune(k.Code-KeyN0)
	case k.Code == KeySpace:
		return ' '
	}
	return 0
}

// --- Mouse ---

type mouseAction uint8

const (
	mouseHold mouseAction = iota
	mouseRelease
	mouseClick
	mouseDoubleClick
)

var mouseActionNames = [...]string{
	mouseHold:        "Mouse.Hold",
	mouseRelease:     "Mouse.Release",
	mouseClick:       "Mouse.Click",
	mouseDoubleClick: "Mouse.DoubleClick",
}

type mouseButtonCommand struct {
	action mouseAction
	pos    graphics.Point
	button MouseButton
}

func buildMouseButton(action mouseAction) commandBuilder {
	return func(params []string) (debugCommand, error) {
		name := mouseActionNames[action]
		if err := expectParams(name, params, 3); err != nil {
			return nil, err
		}
		pos, err := pointParams(name, params, 0)
		if err != nil {
			return nil, err
		}
		button, ok := ParseMouseButton(params[2])
		if !ok || button == MouseButtonNone {
			return nil, errors.Errorf("parameter 3 of %s should be a mouse button (left, right or center)", name)
		}
		return &mouseButtonCommand{action: action, pos: pos, button: button}, nil
	}
}

func (c *mouseButtonCommand) run(d *debugBackend) {
	x, y := c.pos.X, c.pos.Y
	switch c.action {
	case mouseHold:
		d.queue(mouseEvent(EventMouseButtonDown, x, y, c.button))
	case mouseRelease:
		d.queue(mouseEvent(EventMouseButtonUp, x, y, c.button))
	case mouseClick:
		d.queue(mouseEvent(EventMouseButtonDown, x, y, c.button))
		d.queue(mouseEvent(EventMouseButtonUp, x, y, c.button))
	case mouseDoubleClick:
		d.queue(mouseEvent(EventMouseButtonDown, x, y, c.button))
		d.queue(mouseEvent(EventMouseButtonUp, x, y, c.button))
		d.queue(mouseEvent(EventMouseDoubleClick, x, y, c.button))
		d.queue(mouseEvent(EventMouseButtonUp, x, y, c.button))
	}
}

type mouseMoveCommand struct {
	pos graphics.Point
}

func buildMouseMove(params []string) (debugCommand, error) {
	if err := expectParams("Mouse.Move", params, 2); err != nil {
		return nil, err
	}
	pos, err := pointParams("Mouse.Move", params, 0)
	if err != nil {
		return nil, err
	}
	return &mouseMoveCommand{pos: pos}, nil
}

func (c *mouseMoveCommand) run(d *debugBackend) {
	d.queue(mouseEvent(EventMouseMove, c.pos.X, c.pos.Y, MouseButtonNone))
}

// mouseDragCommand presses left at from, moves cell by cell to to, then releases
type mouseDragCommand struct {
	from, to graphics.Point
}

func buildMouseDrag(params []string) (debugCommand, error) {
	if err := expectParams("Mouse.Drag", params, 4); err != nil {
		return nil, err
	}
	from, err := pointParams("Mouse.Drag", params, 0)
	if err != nil {
		return nil, err
	}
	to, err := pointParams("Mouse.Drag", params, 2)
	if err != nil {
		return nil, err
	}
	return &mouseDragCommand{from: from, to: to}, nil
}

func (c *mouseDragCommand) run(d *debugBackend) {
	d.queue(mouseEvent(EventMouseMove, c.from.X, c.from.Y, MouseButtonNone))
	d.queue(mouseEvent(EventMouseButtonDown, c.from.X, c.from.Y, MouseButtonLeft))

	dx, dy := c.to.X-c.from.X, c.to.Y-c.from.Y
	steps := max(abs(dx), abs(dy))
	for i := 1; i <= steps; i++ {
		x := c.from.X + dx*i/steps
		y := c.from.Y + dy*i/steps
		d.queue(mouseEvent(EventMouseMove, x, y, MouseButtonLeft))
	}
	d.queue(mouseEvent(EventMouseButtonUp, c.to.X, c.to.Y, MouseButtonLeft))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type mouseWheelCommand struct {
	pos       graphics.Point
	direction MouseWheelDirection
	times     int
}

func buildMouseWheel(params []string) (debugCommand, error) {
	if err := expectParams("Mouse.Wheel", params, 3, 4); err != nil {
		return nil, err
	}
	pos, err := pointParams("Mouse.Wheel", params, 0)
	if err != nil {
		return nil, err
	}
	dir, ok := ParseWheelDirection(params[2])
	if !ok {
		return nil, errors.Errorf("parameter 3 of Mouse.Wheel should be a direction (one of left, right, up, down)")
	}
	times, err := timesParam("Mouse.Wheel", params, 3)
	if err != nil {
		return nil, err
	}
	return &mouseWheelCommand{pos: pos, direction: dir, times: times}, nil
}

func (c *mouseWheelCommand) run(d *debugBackend) {
	for i := 0; i < c.times; i++ {
		d.queue(wheelEvent(c.pos.X, c.pos.Y, c.direction))
	}
}

// --- Paint and verification ---

type paintCommand struct {
	title string
}

func buildPaint(params []string) (debugCommand, error) {
	if err := expectParams("Paint", params, 0, 1); err != nil {
		return nil, err
	}
	c := &paintCommand{}
	if len(params) == 1 {
		c.title = params[0]
	}
	return c, nil
}

func (c *paintCommand) run(d *debugBackend) {
	if d.paintDisabled {
		return
	}
	d.paintTitle = c.title
	d.paint = true
}

type paintEnableCommand struct {
	enabled bool
}

func buildPaintEnable(params []string) (debugCommand, error) {
	v, err := boolParam("Paint.Enable", params)
	if err != nil {
		return nil, err
	}
	return &paintEnableCommand{enabled: v}, nil
}

func (c *paintEnableCommand) run(d *debugBackend) {
	d.paintDisabled = !c.enabled
}

type errorDisableCommand struct {
	disabled bool
}

func buildErrorDisable(params []string) (debugCommand, error) {
	v, err := boolParam("Error.Disable", params)
	if err != nil {
		return nil, err
	}
	return &errorDisableCommand{disabled: v}, nil
}

func (c *errorDisableCommand) run(d *debugBackend) {
	d.errorsDisabled = c.disabled
}

type checkHashCommand struct {
	hash uint64
}

func buildCheckHash(params []string) (debugCommand, error) {
	if err := expectParams("CheckHash", params, 1); err != nil {
		return nil, err
	}
	s := params[0]
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, errors.Errorf("CheckHash expects a hexadecimal value starting with 0x")
	}
	v, err := strconv.ParseUint(s[2:], 16, 64)
	if err != nil {
		return nil, errors.Errorf("invalid hash value %q", s)
	}
	return &checkHashCommand{hash: v}, nil
}

func (c *checkHashCommand) run(d *debugBackend) {
	d.paint = false
	d.expectHash = &c.hash
}

// hiddenCursor is the position reported for an invisible cursor
var hiddenCursor = graphics.Point{X: -1, Y: -1}

type checkCursorCommand struct {
	pos graphics.Point
}

func buildCheckCursor(params []string) (debugCommand, error) {
	if err := expectParams("CheckCursor", params, 1, 2); err != nil {
		return nil, err
	}
	if len(params) == 1 {
		if !strings.EqualFold(params[0], "hidden") {
			return nil, errors.Errorf("CheckCursor expects x,y or 'hidden'")
		}
		return &checkCursorCommand{pos: hiddenCursor}, nil
	}
	pos, err := pointParams("CheckCursor", params, 0)
	if err != nil {
		return nil, err
	}
	if pos.X < 0 || pos.Y < 0 {
		pos = hiddenCursor
	}
	return &checkCursorCommand{pos: pos}, nil
}

func (c *checkCursorCommand) run(d *debugBackend) {
	d.paint = false
	d.expectCursor = &c.pos
}

type resizeCommand struct {
	size graphics.Size
}

func buildResize(params []string) (debugCommand, error) {
	if err := expectParams("Resize", params, 2); err != nil {
		return nil, err
	}
	w, err := intParam("Resize", params, 0, "width")
	if err != nil {
		return nil, err
	}
	h, err := intParam("Resize", params, 1, "height")
	if err != nil {
		return nil, err
	}
	if w < 1 || h < 1 {
		return nil, errors.Errorf("Resize expects a positive width and height")
	}
	return &resizeCommand{size: clampDebugSize(graphics.Size{Width: w, Height: h})}, nil
}

func (c *resizeCommand) run(d *debugBackend) {
	d.queue(resizeEvent(c.size.Width, c.size.Height))
}

// --- Keyboard ---

type keyPressedCommand struct {
	key   Key
	times int
}

func buildKeyPressed(params []string) (debugCommand, error) {
	if err := expectParams("Key.Pressed", params, 1, 2); err != nil {
		return nil, err
	}
	k, err := ParseKey(params[0])
	if err != nil {
		return nil, err
	}
	times, err := timesParam("Key.Pressed", params, 1)
	if err != nil {
		return nil, err
	}
	return &keyPressedCommand{key: k, times: times}, nil
}

func (c *keyPressedCommand) run(d *debugBackend) {
	ch := keyCharacter(c.key)
	for i := 0; i < c.times; i++ {
		d.queue(keyEvent(c.key, ch))
	}
}

type keyTypeTextCommand struct {
	text string
}

func buildKeyTypeText(params []string) (debugCommand, error) {
	if err := expectParams("Key.TypeText", params, 1); err != nil {
		return nil, err
	}
	if params[0] == "" {
		return nil, errors.Errorf("Key.TypeText expects a non-empty text")
	}
	return &keyTypeTextCommand{text: params[0]}, nil
}

func (c *keyTypeTextCommand) run(d *debugBackend) {
	for _, r := range c.text {
		k := KeyFromRune(r)
		ch := r
		if r == '\n' || r == '\r' || r == '\t' {
			ch = 0
		}
		d.queue(keyEvent(k, ch))
	}
}

type keyModifierCommand struct {
	mod KeyModifier
}

func buildKeyModifier(params []string) (debugCommand, error) {
	if err := expectParams("Key.Modifier", params, 0, 1); err != nil {
		return nil, err
	}
	var mod KeyModifier
	if len(params) == 1 {
		m, err := parseModifiers(params[0])
		if err != nil {
			return nil, err
		}
		mod = m
	}
	return &keyModifierCommand{mod: mod}, nil
}

func (c *keyModifierCommand) run(d *debugBackend) {
	d.queue(SystemEvent{Type: EventKeyModifierChanged, Modifier: c.mod, OldModifier: d.modifier})
}

// --- Clipboard ---

type clipboardSetTextCommand struct {
	text string
}

func buildClipboardSetText(params []string) (debugCommand, error) {
	if err := expectParams("Clipboard.SetText", params, 1); err != nil {
		return nil, err
	}
	return &clipboardSetTextCommand{text: params[0]}, nil
}

func (c *clipboardSetTextCommand) run(d *debugBackend) {
	d.SetClipboardText(c.text)
}

type clipboardClearCommand struct{}

func buildClipboardClear(params []string) (debugCommand, error) {
	if err := expectParams("Clipboard.Clear", params, 0); err != nil {
		return nil, err
	}
	return clipboardClearCommand{}, nil
}

func (clipboardClearCommand) run(d *debugBackend) {
	d.SetClipboardText("")
}

type checkClipboardTextCommand struct {
	text string
}

func buildCheckClipboardText(params []string) (debugCommand, error) {
	if err := expectParams("CheckClipboardText", params, 1); err != nil {
		return nil, err
	}
	return &checkClipboardTextCommand{text: params[0]}, nil
}

func (c *checkClipboardTextCommand) run(d *debugBackend) {
	got, _ := d.ClipboardText()
	if got != c.text {
		d.failf("Invalid clipboard text: (expecting: '%s' but found '%s')", c.text, got)
	}
}
