package game

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrUnknownBase    = errors.New("unknown base profile")
	ErrProfileCycle   = errors.New("profile inheritance cycle")
)

// Policy selects which state machine an agent runs.
type Policy string

const (
	// PolicyTactical strafes at range and repositions when crowded or blind.
	PolicyTactical Policy = "tactical"
	// PolicyApproach closes to shooting range and holds there.
	PolicyApproach Policy = "approach"
)

// Profile is the full parameter set of one agent archetype. Distances are
// world units, times seconds, angles degrees.
type Profile struct {
	Name   string `yaml:"name"`
	Policy Policy `yaml:"policy"`

	// Tactical ranges.
	MinRange       float64 `yaml:"min_range"`
	PreferredRange float64 `yaml:"preferred_range"`
	MaxRange       float64 `yaml:"max_range"`

	// Approach ranges. DetectionRange 0 means unlimited.
	ShootRange       float64 `yaml:"shoot_range"`
	ResumeChaseRange float64 `yaml:"resume_chase_range"`
	DetectionRange   float64 `yaml:"detection_range"`
	ChaseWhenBlocked bool    `yaml:"chase_when_blocked"`

	StrafeRadius      float64 `yaml:"strafe_radius"`
	StrafeRefresh     float64 `yaml:"strafe_refresh"`
	StrafeFlipMin     float64 `yaml:"strafe_flip_min"`
	StrafeFlipMax     float64 `yaml:"strafe_flip_max"`
	StrafeStop        float64 `yaml:"strafe_stop"`
	StrafeSampleRange float64 `yaml:"strafe_sample_range"`

	LOSCheckInterval  float64 `yaml:"los_check_interval"`
	LOSBlockedTimeout float64 `yaml:"los_blocked_timeout"`

	RepositionDistance    float64 `yaml:"reposition_distance"`
	RepositionTimeout     float64 `yaml:"reposition_timeout"`
	RepositionArrival     float64 `yaml:"reposition_arrival"`
	RepositionSampleRange float64 `yaml:"reposition_sample_range"`

	SurroundRadius float64 `yaml:"surround_radius"`
	TurnRate       float64 `yaml:"turn_rate"`
	MoveSpeed      float64 `yaml:"move_speed"`
	DirectSpeed    float64 `yaml:"direct_speed"`

	MaxHealth    int     `yaml:"max_health"`
	HitFlash     float64 `yaml:"hit_flash"`
	MuzzleOffset Vec3    `yaml:"muzzle_offset"`

	Weapon WeaponProfile `yaml:"weapon"`
}

// TacticalProfile is the strafing rifleman.
func TacticalProfile() Profile {
	return Profile{
		Name:                  "tactical",
		Policy:                PolicyTactical,
		MinRange:              7,
		PreferredRange:        12,
		MaxRange:              20,
		StrafeRadius:          5,
		StrafeRefresh:         0.25,
		StrafeFlipMin:         1.5,
		StrafeFlipMax:         3,
		StrafeStop:            11,
		StrafeSampleRange:     3,
		LOSCheckInterval:      defaultLOSCheckInterval,
		LOSBlockedTimeout:     0.8,
		RepositionDistance:    4.5,
		RepositionTimeout:     2,
		RepositionArrival:     0.5,
		RepositionSampleRange: 5,
		SurroundRadius:        3,
		TurnRate:              360,
		MoveSpeed:             4,
		DirectSpeed:           3.5,
		MaxHealth:             50,
		HitFlash:              0.1,
		MuzzleOffset:          Vec3{Y: 1.2, Z: 0.8},
		Weapon:                DefaultWeapon(),
	}
}

// RangedProfile closes to ten units, holds, and fires single rounds.
func RangedProfile() Profile {
	w := DefaultWeapon()
	w.BurstCount = 1
	w.CooldownMin = 1.2
	w.CooldownMax = 1.2
	w.SpreadStanding = 0
	w.SpreadMoving = 0
	return Profile{
		Name:             "ranged",
		Policy:           PolicyApproach,
		ShootRange:       10,
		ResumeChaseRange: 14,
		DetectionRange:   25,
		LOSCheckInterval: defaultLOSCheckInterval,
		SurroundRadius:   3,
		TurnRate:         360,
		MoveSpeed:        3.5,
		DirectSpeed:      3.5,
		MaxHealth:        50,
		HitFlash:         0.1,
		MuzzleOffset:     Vec3{Y: 1.2, Z: 0.8},
		Weapon:           w,
	}
}

// ChaserProfile runs straight at the target and shoots hitscan once in range
// with a clear line.
func ChaserProfile() Profile {
	w := DefaultWeapon()
	w.BurstCount = 1
	w.CooldownMin = 0.8
	w.CooldownMax = 0.8
	w.SpreadStanding = 0
	w.SpreadMoving = 0
	w.Hitscan = true
	return Profile{
		Name:             "chaser",
		Policy:           PolicyApproach,
		ShootRange:       12,
		ResumeChaseRange: 12,
		ChaseWhenBlocked: true,
		LOSCheckInterval: defaultLOSCheckInterval,
		TurnRate:         300,
		MoveSpeed:        3.5,
		DirectSpeed:      3.5,
		MaxHealth:        50,
		HitFlash:         0.1,
		MuzzleOffset:     Vec3{Y: 1.5},
		Weapon:           w,
	}
}

// Preset returns a built-in profile by name.
func Preset(name string) (Profile, bool) {
	switch name {
	case "tactical":
		return TacticalProfile(), true
	case "ranged":
		return RangedProfile(), true
	case "chaser":
		return ChaserProfile(), true
	default:
		return Profile{}, false
	}
}

func invalid(p Profile, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidProfile, p.Name, fmt.Sprintf(format, args...))
}

// Validate checks the profile is internally consistent.
func (p Profile) Validate() error {
	switch p.Policy {
	case PolicyTactical:
		if p.MinRange < 0 || p.MinRange > p.PreferredRange || p.PreferredRange > p.MaxRange {
			return invalid(p, "ranges must satisfy 0 <= min (%.2f) <= preferred (%.2f) <= max (%.2f)",
				p.MinRange, p.PreferredRange, p.MaxRange)
		}
		if p.StrafeRefresh <= 0 {
			return invalid(p, "strafe_refresh must be positive")
		}
		if p.StrafeFlipMin <= 0 || p.StrafeFlipMin > p.StrafeFlipMax {
			return invalid(p, "strafe flip interval [%.2f, %.2f] is empty", p.StrafeFlipMin, p.StrafeFlipMax)
		}
		if p.RepositionTimeout <= 0 {
			return invalid(p, "reposition_timeout must be positive")
		}
		if p.LOSBlockedTimeout <= 0 {
			return invalid(p, "los_blocked_timeout must be positive")
		}
	case PolicyApproach:
		if p.ShootRange <= 0 || p.ResumeChaseRange < p.ShootRange {
			return invalid(p, "ranges must satisfy 0 < shoot (%.2f) <= resume (%.2f)", p.ShootRange, p.ResumeChaseRange)
		}
		if p.DetectionRange < 0 || (p.DetectionRange > 0 && p.DetectionRange < p.ResumeChaseRange) {
			return invalid(p, "detection_range %.2f is inside resume_chase_range", p.DetectionRange)
		}
	default:
		return invalid(p, "unknown policy %q", p.Policy)
	}
	if p.LOSCheckInterval <= 0 {
		return invalid(p, "los_check_interval must be positive")
	}
	if p.TurnRate <= 0 || p.DirectSpeed < 0 {
		return invalid(p, "turn_rate and direct_speed must be positive")
	}
	w := p.Weapon
	if w.BurstCount < 1 {
		return invalid(p, "burst_count must be at least 1")
	}
	if w.BurstCount > 1 && w.BurstInterval <= 0 {
		return invalid(p, "burst_interval must be positive")
	}
	if w.CooldownMin < 0 || w.CooldownMin > w.CooldownMax {
		return invalid(p, "cooldown [%.2f, %.2f] is empty", w.CooldownMin, w.CooldownMax)
	}
	if w.SpreadStanding < 0 || w.SpreadMoving < 0 {
		return invalid(p, "spread must not be negative")
	}
	if !w.Hitscan && w.MuzzleSpeed <= 0 {
		return invalid(p, "muzzle_speed must be positive")
	}
	if w.Damage < 0 {
		return invalid(p, "damage must not be negative")
	}
	return nil
}

type profileFile struct {
	Profiles map[string]yaml.Node `yaml:"profiles"`
}

type profileHeader struct {
	Base string `yaml:"base"`
}

// ParseProfiles decodes a profiles document. Each entry starts from the
// profile named by its base (a preset or another entry; tactical when
// omitted) and overrides the fields it sets.
func ParseProfiles(data []byte) (map[string]Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("profiles: unmarshal: %w", err)
	}

	out := make(map[string]Profile, len(f.Profiles))
	resolving := map[string]bool{}

	var resolve func(name string) (Profile, error)
	resolve = func(name string) (Profile, error) {
		if p, ok := out[name]; ok {
			return p, nil
		}
		node, ok := f.Profiles[name]
		if !ok {
			if p, ok := Preset(name); ok {
				return p, nil
			}
			return Profile{}, fmt.Errorf("profiles: %q: %w", name, ErrUnknownBase)
		}
		if resolving[name] {
			return Profile{}, fmt.Errorf("profiles: %q: %w", name, ErrProfileCycle)
		}
		resolving[name] = true
		defer delete(resolving, name)

		var hdr profileHeader
		if err := node.Decode(&hdr); err != nil {
			return Profile{}, fmt.Errorf("profiles: %q: %w", name, err)
		}
		base := hdr.Base
		if base == "" {
			base = "tactical"
		}
		var p Profile
		if base == name {
			preset, ok := Preset(name)
			if !ok {
				return Profile{}, fmt.Errorf("profiles: %q: %w", name, ErrProfileCycle)
			}
			p = preset
		} else {
			var err error
			if p, err = resolve(base); err != nil {
				return Profile{}, err
			}
		}
		if err := node.Decode(&p); err != nil {
			return Profile{}, fmt.Errorf("profiles: %q: %w", name, err)
		}
		p.Name = name
		out[name] = p
		return p, nil
	}

	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p, err := resolve(name)
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profiles: %w", err)
		}
	}
	return out, nil
}

// LoadProfiles reads and parses a profiles file.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profiles: load %s: %w", path, err)
	}
	ps, err := ParseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}
