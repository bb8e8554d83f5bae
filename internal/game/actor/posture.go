package actor

// Stance is an actor's coarse movement/interrupt state.
type Stance int

const (
	Standing Stance = iota
	Moving
	Staggered
	KnockedDown
	Dead
)

var stanceNames = [...]string{"standing", "moving", "staggered", "knocked_down", "dead"}

func (s Stance) String() string {
	if s < 0 || int(s) >= len(stanceNames) {
		return "unknown"
	}
	return stanceNames[s]
}

// PostureConfig sets how long each interrupt state lasts.
type PostureConfig struct {
	StaggerDuration   float64
	KnockdownDuration float64
}

// DefaultPostureConfig returns the built-in recovery times in seconds.
func DefaultPostureConfig() PostureConfig {
	return PostureConfig{StaggerDuration: 1.0, KnockdownDuration: 2.5}
}

// Posture is the coarse state machine that stagger and knockdown drive.
// Interrupt states recover to Standing once their timer expires; Dead is left
// only through Revive.
type Posture struct {
	cfg       PostureConfig
	stance    Stance
	remaining float64
}

// NewPosture returns a Standing posture.
func NewPosture(cfg PostureConfig) *Posture {
	return &Posture{cfg: cfg}
}

// Stance returns the current stance.
func (p *Posture) Stance() Stance { return p.stance }

// Remaining returns the recovery time left in an interrupt state.
func (p *Posture) Remaining() float64 { return p.remaining }

// Free reports whether the stance is Standing or Moving.
func (p *Posture) Free() bool {
	return p.stance == Standing || p.stance == Moving
}

// SetMoving toggles between Standing and Moving. Ignored unless Free.
func (p *Posture) SetMoving(moving bool) {
	if !p.Free() {
		return
	}
	if moving {
		p.stance = Moving
	} else {
		p.stance = Standing
	}
}

// Stagger enters Staggered unless dead.
func (p *Posture) Stagger() { p.enter(Staggered, p.cfg.StaggerDuration) }

// Knockdown enters KnockedDown unless dead.
func (p *Posture) Knockdown() { p.enter(KnockedDown, p.cfg.KnockdownDuration) }

// Die enters Dead.
func (p *Posture) Die() {
	p.stance = Dead
	p.remaining = 0
}

// Revive returns a dead posture to Standing.
func (p *Posture) Revive() {
	p.stance = Standing
	p.remaining = 0
}

// Tick counts down an interrupt state and recovers to Standing at zero.
func (p *Posture) Tick(dt float64) {
	if p.stance != Staggered && p.stance != KnockedDown {
		return
	}
	p.remaining -= dt
	if p.remaining <= 0 {
		p.stance = Standing
		p.remaining = 0
	}
}

func (p *Posture) enter(s Stance, d float64) {
	if p.stance == Dead {
		return
	}
	p.stance = s
	p.remaining = d
}
