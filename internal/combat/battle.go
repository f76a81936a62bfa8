package combat

import (
	"cmp"
	"slices"

	"go.uber.org/zap"

	"github.com/MJE43/eclipse-combat/internal/engine"
)

// BattleResult is the outcome of one battle. When neither flag is set both
// fleets were destroyed or neither could deal damage.
type BattleResult struct {
	AttackerWon bool
	DefenderWon bool
	// Survivors counts the winner's living ships per type.
	Survivors map[string]int
	Rounds    int
}

// Battle runs one engagement between two fleets it owns exclusively.
type Battle struct {
	attacker Fleet
	defender Fleet
	src      engine.Source
	trace    *zap.Logger

	targeter Targeter
	order    []*Ship
	allies   []int
	hits     []Hit
	rounds   int
}

// NewBattle takes ownership of both fleets; pass clones when the
// templates are reused.
func NewBattle(attacker, defender Fleet, src engine.Source) *Battle {
	for i := range attacker.Ships {
		attacker.Ships[i].Side = Attacker
	}
	for i := range defender.Ships {
		defender.Ships[i].Side = Defender
	}
	return &Battle{
		attacker: attacker,
		defender: defender,
		src:      src,
	}
}

// WithTrace logs every volley, turn and hit at debug level.
func (b *Battle) WithTrace(logger *zap.Logger) *Battle {
	b.trace = logger
	return b
}

// Attacker returns the attacking fleet in its current state.
func (b *Battle) Attacker() *Fleet { return &b.attacker }

// Defender returns the defending fleet in its current state.
func (b *Battle) Defender() *Fleet { return &b.defender }

// Rounds returns the number of standard rounds fought so far.
func (b *Battle) Rounds() int { return b.rounds }

// Fight runs the missile volley and then standard rounds until it is over.
func (b *Battle) Fight() BattleResult {
	b.Volley()
	for !b.Finished() {
		b.Round()
	}
	return b.Result()
}

// Finished reports whether a fleet is gone or neither side can deal damage.
// Without the second check two unarmed fleets would trade empty rounds forever.
func (b *Battle) Finished() bool {
	if b.attacker.Len() == 0 || b.defender.Len() == 0 {
		return true
	}
	return !b.attacker.Armed() && !b.defender.Armed()
}

// Volley fires every ship's missiles once in initiative order.
func (b *Battle) Volley() {
	b.prepareTurnOrder()
	if b.trace != nil {
		b.trace.Debug("missile_volley", zap.Int("ships", len(b.order)))
	}
	for _, ship := range b.order {
		if !b.attacker.AnyAlive() || !b.defender.AnyAlive() {
			break
		}
		if !ship.Alive() {
			continue
		}
		own, enemy := b.fleets(ship.Side)
		shield := b.allyShield(own, ship)
		b.hits = RollMissiles(b.src, ship, b.hits[:0])
		b.resolve(ship, enemy, shield, Guided)
	}
	b.attacker.Compact()
	b.defender.Compact()
}

// Round fights one standard round: cannons then rift cannons for each
// living ship in initiative order. Damage lands immediately, so later
// shooters see it.
func (b *Battle) Round() {
	b.rounds++
	b.prepareTurnOrder()
	if b.trace != nil {
		b.trace.Debug("round_started",
			zap.Int("round", b.rounds),
			zap.Int("attackers", b.attacker.Len()),
			zap.Int("defenders", b.defender.Len()),
		)
	}
	for _, ship := range b.order {
		if !b.attacker.AnyAlive() || !b.defender.AnyAlive() {
			break
		}
		if !ship.Alive() {
			continue
		}
		own, enemy := b.fleets(ship.Side)
		shield := b.allyShield(own, ship)
		b.hits = RollCannons(b.src, ship, b.hits[:0])
		b.resolve(ship, enemy, shield, Standard)
		b.fireRift(ship, own, enemy, shield)
	}
	b.attacker.Compact()
	b.defender.Compact()
}

// Result summarises the current state of the battle.
func (b *Battle) Result() BattleResult {
	result := BattleResult{Rounds: b.rounds}
	attackerAlive := b.attacker.AnyAlive()
	defenderAlive := b.defender.AnyAlive()
	switch {
	case attackerAlive && !defenderAlive:
		result.AttackerWon = true
		result.Survivors = b.attacker.Survivors()
	case defenderAlive && !attackerAlive:
		result.DefenderWon = true
		result.Survivors = b.defender.Survivors()
	}
	return result
}

func (b *Battle) fleets(side Side) (own, enemy *Fleet) {
	if side == Defender {
		return &b.defender, &b.attacker
	}
	return &b.attacker, &b.defender
}

// prepareTurnOrder numbers the ships (attackers first) and sorts them by
// initiative, defenders before attackers, then higher index first.
func (b *Battle) prepareTurnOrder() {
	b.order = b.order[:0]
	index := 0
	for i := range b.attacker.Ships {
		b.attacker.Ships[i].Index = index
		b.order = append(b.order, &b.attacker.Ships[i])
		index++
	}
	for i := range b.defender.Ships {
		b.defender.Ships[i].Index = index
		b.order = append(b.order, &b.defender.Ships[i])
		index++
	}
	slices.SortFunc(b.order, func(x, y *Ship) int {
		if c := cmp.Compare(y.Stats.Initiative, x.Stats.Initiative); c != 0 {
			return c
		}
		if x.Side != y.Side {
			if x.Side == Defender {
				return -1
			}
			return 1
		}
		return cmp.Compare(y.Index, x.Index)
	})
}

// allyShield records the shooter's living allies and returns their best shield.
func (b *Battle) allyShield(own *Fleet, shooter *Ship) int {
	b.allies = own.Alive(b.allies[:0])
	shield := shooter.Stats.Shield
	for _, i := range b.allies {
		shield = max(shield, own.Ships[i].Stats.Shield)
	}
	return shield
}

func (b *Battle) resolve(shooter *Ship, enemy *Fleet, shield int, class WeaponClass) {
	for _, hit := range b.hits {
		target := b.targeter.Select(enemy, hit.Roll, shooter, shield, hit.Damage, class)
		if target == nil {
			if b.trace != nil {
				b.trace.Debug("hit_wasted",
					zap.String("shooter", shooter.Type),
					zap.Stringer("weapon", class),
					zap.Int("roll", hit.Roll),
				)
			}
			continue
		}
		b.damage(shooter, target, hit.Damage, class)
	}
}

// fireRift resolves rift charges face by face. Every face that reaches the
// enemy counts as a natural 6; self damage lands on the sturdiest living ally
// that carries rift cannons.
func (b *Battle) fireRift(shooter *Ship, own, enemy *Fleet, shield int) {
	if shooter.Stats.RiftCannons == 0 {
		return
	}
	tally := RollRift(b.src, shooter.Stats.RiftCannons)
	for face, n := range tally {
		toTarget, toSelf := RiftFace(face).Effect()
		if toTarget == 0 && toSelf == 0 {
			continue
		}
		for ; n > 0; n-- {
			if !shooter.Alive() {
				return
			}
			target := b.targeter.Select(enemy, criticalRoll, shooter, shield, toTarget, Area)
			if target == nil {
				return
			}
			if toTarget > 0 {
				b.damage(shooter, target, toTarget, Area)
			}
			if toSelf > 0 {
				if bearer := b.riftBearer(own); bearer != nil {
					b.damage(shooter, bearer, toSelf, Area)
				}
			}
		}
	}
}

// riftBearer picks the living ally with rift cannons and the highest hull.
func (b *Battle) riftBearer(own *Fleet) *Ship {
	var best *Ship
	for _, i := range b.allies {
		ship := &own.Ships[i]
		if !ship.Alive() || ship.Stats.RiftCannons == 0 {
			continue
		}
		if best == nil || ship.Hull > best.Hull {
			best = ship
		}
	}
	return best
}

func (b *Battle) damage(shooter, target *Ship, amount int, class WeaponClass) {
	target.Hull -= amount
	if b.trace == nil {
		return
	}
	b.trace.Debug("hit",
		zap.String("shooter", shooter.Type),
		zap.Stringer("shooter_side", shooter.Side),
		zap.String("target", target.Type),
		zap.Stringer("target_side", target.Side),
		zap.Int("target_index", target.Index),
		zap.Stringer("weapon", class),
		zap.Int("damage", amount),
		zap.Int("hull", target.Hull),
	)
	if !target.Alive() {
		b.trace.Debug("ship_destroyed",
			zap.String("type", target.Type),
			zap.Stringer("side", target.Side),
			zap.Int("index", target.Index),
		)
	}
}
