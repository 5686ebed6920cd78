package game

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var ErrUnknownScript = errors.New("unknown target script")

// Built-in target motions. Scripts read t, dt, cx, cz (the start point) and
// x, z (the current position) and assign the next x and z.
var builtinTargetScripts = map[string]string{
	"still": `x = x`,
	"orbit": `
math := import("math")
x = cx + 8 * math.cos(t * 0.4)
z = cz + 8 * math.sin(t * 0.4)
`,
	"pace": `
math := import("math")
x = cx + 10 * math.sin(t * 0.6)
`,
	"retreat": `
z = z + 1.5 * dt
`,
}

// TargetScriptNames lists the built-in scripts.
func TargetScriptNames() []string {
	names := make([]string, 0, len(builtinTargetScripts))
	for n := range builtinTargetScripts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TargetScript is a compiled tengo program moving the target.
type TargetScript struct {
	name     string
	compiled *tengo.Compiled
	origin   Vec3
}

// NewTargetScript compiles src. origin is exposed to the script as cx, cz.
func NewTargetScript(name string, src []byte, origin Vec3) (*TargetScript, error) {
	script := tengo.NewScript(src)
	for _, v := range []string{"t", "dt", "cx", "cz", "x", "z"} {
		_ = script.Add(v, 0.0)
	}
	script.SetImports(stdlib.GetModuleMap("math"))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("target script %s: compile: %w", name, err)
	}
	return &TargetScript{name: name, compiled: compiled, origin: origin}, nil
}

// LoadTargetScript resolves a built-in script name or reads a script file.
func LoadTargetScript(nameOrPath string, origin Vec3) (*TargetScript, error) {
	if src, ok := builtinTargetScripts[nameOrPath]; ok {
		return NewTargetScript(nameOrPath, []byte(src), origin)
	}
	src, err := os.ReadFile(nameOrPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScript, nameOrPath)
		}
		return nil, fmt.Errorf("target script: read %s: %w", nameOrPath, err)
	}
	return NewTargetScript(nameOrPath, src, origin)
}

func (ts *TargetScript) Name() string { return ts.name }

// Next runs the script once and returns the new target position. A script
// fault, including a runtime panic inside the VM, comes back as an error.
func (ts *TargetScript) Next(t, dt float64, cur Vec3) (next Vec3, err error) {
	defer func() {
		if r := recover(); r != nil {
			next, err = cur, fmt.Errorf("target script %s: run: %v", ts.name, r)
		}
	}()
	c := ts.compiled
	for name, v := range map[string]float64{
		"t":  t,
		"dt": dt,
		"cx": ts.origin.X,
		"cz": ts.origin.Z,
		"x":  cur.X,
		"z":  cur.Z,
	} {
		if err := c.Set(name, v); err != nil {
			return cur, fmt.Errorf("target script %s: set %s: %w", ts.name, name, err)
		}
	}
	if err := c.Run(); err != nil {
		return cur, fmt.Errorf("target script %s: run: %w", ts.name, err)
	}
	x, err := ts.coord(c, "x")
	if err != nil {
		return cur, err
	}
	z, err := ts.coord(c, "z")
	if err != nil {
		return cur, err
	}
	return Vec3{X: x, Y: cur.Y, Z: z}, nil
}

func (ts *TargetScript) coord(c *tengo.Compiled, name string) (float64, error) {
	v := c.Get(name)
	switch v.ValueType() {
	case "float", "int":
		return v.Float(), nil
	default:
		return 0, fmt.Errorf("target script %s: %s is %s, want a number", ts.name, name, v.ValueType())
	}
}
