package parser

import (
	"encoding/base64"
	"image/color"
	"strconv"
	"strings"
)

// stepOSCString collects an OSC "Ps ; Pt" payload until ST (ESC \) or
// BEL, then dispatches it.
func (e *Emulator) stepOSCString() {
	b, ok := e.stream.NextByte()
	if !ok {
		return
	}

	if b == 0x07 {
		e.dispatchOSC(string(e.osc), "\a")
		e.toGround()
		return
	}
	if b == 0x1B {
		nb, ok := e.stream.NextByte()
		if !ok {
			e.stream.PushBack(b)
			return
		}
		if nb == '\\' {
			e.dispatchOSC(string(e.osc), "\x1b\\")
			e.toGround()
			return
		}
		e.stream.PushBack(nb)
		e.st = stateEscape
		return
	}
	if b == 0x18 || b == 0x1A {
		e.toGround()
		return
	}

	e.osc = append(e.osc, b)
}

// dispatchOSC splits an OSC payload on its first ';' into Ps and Pt and
// routes it to the matching Handler hook. terminator is the raw bytes
// that closed the string (BEL or ST), forwarded to hooks that must echo
// it back in their own response (e.g. OSC 52's reply uses the same
// terminator the query used).
func (e *Emulator) dispatchOSC(payload, terminator string) {
	ps, pt, _ := strings.Cut(payload, ";")
	code, err := strconv.Atoi(ps)
	if err != nil {
		return
	}

	switch code {
	case 0, 2:
		e.handler.SetTitle(pt)
	case 1:
		e.handler.SetTitle(pt)
	case 4:
		e.dispatchPalette(pt)
	case 7:
		e.handler.SetWorkingDirectory(pt)
	case 8:
		e.dispatchHyperlink(pt)
	case 10:
		e.handler.SetDynamicColor("10", 0, terminator)
	case 11:
		e.handler.SetDynamicColor("11", 0, terminator)
	case 12:
		e.handler.SetDynamicColor("12", 0, terminator)
	case 52:
		e.dispatchClipboard(pt, terminator)
	case 104, 110, 111, 112:
		e.dispatchResetColor(pt)
	case 133:
		e.dispatchShellIntegration(pt)
	}
}

func (e *Emulator) dispatchPalette(pt string) {
	// "Pc;spec[;Pc;spec...]"
	fields := strings.Split(pt, ";")
	for i := 0; i+1 < len(fields); i += 2 {
		idx, err := strconv.Atoi(fields[i])
		if err != nil {
			continue
		}
		c, ok := parseColorSpec(fields[i+1])
		if !ok {
			continue
		}
		e.handler.SetColor(idx, c)
	}
}

func (e *Emulator) dispatchResetColor(pt string) {
	if pt == "" {
		e.handler.ResetColor(-1)
		return
	}
	for _, f := range strings.Split(pt, ";") {
		idx, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		e.handler.ResetColor(idx)
	}
}

// parseColorSpec parses an X11-style "rgb:rr/gg/bb" or "#rrggbb" color
// specification, as used by OSC 4/10/11/12 payloads.
func parseColorSpec(spec string) (color.Color, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(spec[4:], "/")
		if len(parts) != 3 {
			return nil, false
		}
		r, ok1 := parseHexComponent(parts[0])
		g, ok2 := parseHexComponent(parts[1])
		b, ok3 := parseHexComponent(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		return color.RGBA{R: r, G: g, B: b, A: 0xFF}, true
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7) {
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return nil, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, true
	}
	return nil, false
}

// parseHexComponent parses a 1-4 hex-digit color channel, scaling it to
// an 8-bit value the way xterm's rgb: spec defines.
func parseHexComponent(s string) (uint8, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	maxV := uint64(1)<<(4*len(s)) - 1
	return uint8(v * 255 / maxV), true
}

func (e *Emulator) dispatchHyperlink(pt string) {
	params, uri, _ := strings.Cut(pt, ";")
	if uri == "" {
		e.handler.SetHyperlink(nil)
		return
	}
	id := ""
	for _, kv := range strings.Split(params, ":") {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "id" {
			id = v
		}
	}
	e.handler.SetHyperlink(&Hyperlink{ID: id, URI: uri})
}

func (e *Emulator) dispatchClipboard(pt, terminator string) {
	clipboardSpec, data, ok := strings.Cut(pt, ";")
	if !ok {
		return
	}
	var clip byte = 'c'
	if len(clipboardSpec) > 0 {
		clip = clipboardSpec[0]
	}
	if data == "?" {
		e.handler.ClipboardLoad(clip, terminator)
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}
	e.handler.ClipboardStore(clip, decoded)
}

func (e *Emulator) dispatchShellIntegration(pt string) {
	mark, rest, _ := strings.Cut(pt, ";")
	exitCode := -1
	switch mark {
	case "A":
		e.handler.ShellIntegrationMark(PromptStart, exitCode)
	case "B":
		e.handler.ShellIntegrationMark(CommandStart, exitCode)
	case "C":
		e.handler.ShellIntegrationMark(CommandExecuted, exitCode)
	case "D":
		if rest != "" {
			if n, err := strconv.Atoi(rest); err == nil {
				exitCode = n
			}
		}
		e.handler.ShellIntegrationMark(CommandFinished, exitCode)
	}
}
