package game

import (
	"sync"
	"sync/atomic"
)

const defaultTargetHealth = 100

// Player is the hunted target. Health changes are lock-free and safe to call
// from any goroutine.
type Player struct {
	id        ColliderID
	maxHealth int64
	health    atomic.Int64

	mu  sync.RWMutex
	pos Vec3

	OnHealthChanged func(current, max int)
	OnDefeated      func()
	defeated        sync.Once
}

// NewPlayer creates a target at full health.
func NewPlayer(id ColliderID, pos Vec3, maxHealth int) *Player {
	if maxHealth <= 0 {
		maxHealth = defaultTargetHealth
	}
	p := &Player{id: id, maxHealth: int64(maxHealth), pos: pos}
	p.health.Store(int64(maxHealth))
	return p
}

func (p *Player) ColliderID() ColliderID { return p.id }

func (p *Player) Position() Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

// SetPosition moves the target.
func (p *Player) SetPosition(v Vec3) {
	p.mu.Lock()
	p.pos = v
	p.mu.Unlock()
}

func (p *Player) CurrentHealth() int { return int(p.health.Load()) }

func (p *Player) MaxHealth() int { return int(p.maxHealth) }

// TakeDamage subtracts amount, clamping at zero. Damage after defeat is ignored.
func (p *Player) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	for {
		cur := p.health.Load()
		if cur <= 0 {
			return
		}
		next := max(cur-int64(amount), 0)
		if !p.health.CompareAndSwap(cur, next) {
			continue
		}
		if p.OnHealthChanged != nil {
			p.OnHealthChanged(int(next), int(p.maxHealth))
		}
		if next == 0 {
			p.defeated.Do(func() {
				if p.OnDefeated != nil {
					p.OnDefeated()
				}
			})
		}
		return
	}
}

// Heal restores health up to the maximum. A defeated target stays defeated.
func (p *Player) Heal(amount int) {
	for {
		cur := p.health.Load()
		if cur <= 0 || amount <= 0 {
			return
		}
		next := min(cur+int64(amount), p.maxHealth)
		if p.health.CompareAndSwap(cur, next) {
			if p.OnHealthChanged != nil {
				p.OnHealthChanged(int(next), int(p.maxHealth))
			}
			return
		}
	}
}
