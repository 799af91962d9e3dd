package scenario

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vovakirdan/rulestage/internal/anim"
	"github.com/vovakirdan/rulestage/internal/condition"
	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

// compiler turns raw documents into the typed model, collecting problems
// instead of stopping at the first one.
type compiler struct {
	cfg      config.EngineConfig
	ve       *ValidationError
	objects  map[string]bool
	flags    map[string]bool
	counters map[string]bool
}

func (c *compiler) errorf(format string, args ...any) {
	c.ve.Errors = append(c.ve.Errors, fmt.Sprintf(format, args...))
}

func (c *compiler) warnf(format string, args ...any) {
	c.ve.Warnings = append(c.ve.Warnings, fmt.Sprintf(format, args...))
}

func lookup[T any](c *compiler, table map[string]T, name, what, where string) T {
	v, ok := table[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		c.errorf("%s: unknown %s %q", where, what, name)
	}
	return v
}

func (c *compiler) scenario(raw rawScenario) *Scenario {
	s := &Scenario{
		Name:  raw.Name,
		Field: core.Size{W: raw.Field.Width, H: raw.Field.Height},
		Seed:  raw.Seed,
	}
	if s.Name == "" {
		c.errorf("name is required")
	}
	if s.Field.W <= 0 || s.Field.H <= 0 {
		def := core.DefaultConfig()
		s.Field = def.Field()
		c.warnf("field size missing, using %gx%g", s.Field.W, s.Field.H)
	}

	for i, f := range raw.Flags {
		where := fmt.Sprintf("flags[%d]", i)
		if f.Name == "" {
			c.errorf("%s: name is required", where)
			continue
		}
		if c.flags[f.Name] {
			c.errorf("%s: duplicate flag %q", where, f.Name)
			continue
		}
		c.flags[f.Name] = true
		s.Flags = append(s.Flags, FlagDefinition{Name: f.Name, Initial: f.Initial})
	}

	for i, rc := range raw.Counters {
		where := fmt.Sprintf("counters[%d]", i)
		if rc.Name == "" {
			c.errorf("%s: name is required", where)
			continue
		}
		if c.counters[rc.Name] {
			c.errorf("%s: duplicate counter %q", where, rc.Name)
			continue
		}
		def := store.CounterDefinition{Name: rc.Name, Initial: rc.Initial}
		if rc.Min != nil {
			def.Min, def.HasMin = *rc.Min, true
		}
		if rc.Max != nil {
			def.Max, def.HasMax = *rc.Max, true
		}
		if def.HasMin && def.HasMax && def.Min > def.Max {
			c.errorf("%s: min %g exceeds max %g", where, def.Min, def.Max)
			continue
		}
		c.counters[rc.Name] = true
		s.Counters = append(s.Counters, def)
	}

	for i, ro := range raw.Objects {
		if o := c.object(i, ro); o != nil {
			s.Objects = append(s.Objects, o)
		}
	}

	ids := make(map[string]bool)
	for i, rr := range raw.Rules {
		r := c.rule(i, rr)
		if ids[r.ID] {
			c.errorf("rules[%d]: duplicate rule id %q", i, r.ID)
			continue
		}
		ids[r.ID] = true
		s.Rules = append(s.Rules, r)
	}

	for i, re := range raw.Script {
		s.Script = append(s.Script, c.event(i, re))
	}
	return s
}

func (c *compiler) object(i int, ro rawObject) *world.Object {
	where := fmt.Sprintf("objects[%d]", i)
	if ro.ID == "" {
		c.errorf("%s: id is required", where)
		return nil
	}
	if c.objects[ro.ID] {
		c.errorf("%s: duplicate object id %q", where, ro.ID)
		return nil
	}
	c.objects[ro.ID] = true
	if ro.Width <= 0 || ro.Height <= 0 {
		c.errorf("%s: width and height must be positive", where)
	}

	o := world.NewObject(ro.ID, core.V(ro.X, ro.Y), ro.Width, ro.Height)
	if ro.Name != "" {
		o.Name = ro.Name
	}
	o.Visible = !ro.Hidden
	if ro.Scale > 0 {
		o.Scale = ro.Scale
	}
	o.Velocity = core.V(ro.Velocity.X, ro.Velocity.Y)
	o.Color = core.PaletteColor(i)
	if ro.Color != "" {
		col, ok := core.ParseColor(ro.Color)
		if !ok {
			c.warnf("%s: unknown color %q", where, ro.Color)
		}
		o.Color = col
	}

	if b := ro.Body; b != nil {
		bt, ok := world.ParseBodyType(b.Type)
		if !ok {
			c.errorf("%s: unknown body type %q", where, b.Type)
		}
		o.Body = &world.Body{
			Type:            bt,
			Friction:        b.Friction,
			Restitution:     b.Restitution,
			Mass:            b.Mass,
			MaxVelocity:     b.MaxVelocity,
			AirResistance:   b.AirResistance,
			AngularVelocity: b.AngularVelocity,
		}
		if b.Gravity != nil {
			o.Body.Gravity = *b.Gravity
		} else if bt == world.BodyDynamic {
			o.Body.Gravity = c.cfg.Physics.Gravity
		}
	}

	if len(ro.Clips) > 0 {
		o.Clips = make(map[string]world.Clip, len(ro.Clips))
		for name, rc := range ro.Clips {
			if rc.Frames <= 0 {
				c.errorf("%s: clip %q needs at least one frame", where, name)
			}
			o.Clips[name] = world.Clip{Frames: rc.Frames, FPS: rc.FPS, Loop: rc.Loop, Reverse: rc.Reverse}
		}
	}
	if ro.Clip != "" {
		if err := anim.Switch(o, ro.Clip); err != nil {
			c.errorf("%s: start clip: %v", where, err)
		}
	}
	return o
}

func (c *compiler) region(where string, rr *rawRegion) core.Region {
	if rr == nil {
		c.errorf("%s: region is required", where)
		return core.Region{}
	}
	switch strings.ToLower(rr.Shape) {
	case "", "rect":
		if rr.W <= 0 || rr.H <= 0 {
			c.errorf("%s: rect region needs positive w and h", where)
		}
		return core.RectRegion(rr.X, rr.Y, rr.W, rr.H)
	case "circle":
		if rr.Radius <= 0 {
			c.errorf("%s: circle region needs a positive radius", where)
		}
		return core.CircleRegion(rr.X, rr.Y, rr.Radius)
	default:
		c.errorf("%s: unknown region shape %q", where, rr.Shape)
		return core.Region{}
	}
}

func (c *compiler) window(where string, rw rawWindow) *rules.Window {
	if rw.End == nil {
		return &rules.Window{Start: rw.Start, Open: true}
	}
	if *rw.End <= rw.Start {
		c.errorf("%s: window end %g must be after start %g", where, *rw.End, rw.Start)
	}
	return &rules.Window{Start: rw.Start, End: *rw.End}
}

func (c *compiler) rule(i int, rr rawRule) *rules.Rule {
	r := &rules.Rule{
		ID:       rr.ID,
		Name:     rr.Name,
		Enabled:  rr.Enabled == nil || *rr.Enabled,
		Priority: rr.Priority,
		Target:   rr.Target,
		MaxCount: rr.MaxCount,
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	where := fmt.Sprintf("rules[%d] %q", i, r.Label())
	if r.MaxCount < 0 {
		c.errorf("%s: max_count must not be negative", where)
	}
	if r.Target != "" {
		c.checkObject(where, r.Target)
	}
	if rr.Window != nil {
		r.Window = c.window(where, *rr.Window)
	}

	switch strings.ToLower(rr.Trigger.Operator) {
	case "", "and", "all":
		r.Trigger.Op = rules.OpAnd
	case "or", "any":
		r.Trigger.Op = rules.OpOr
	default:
		c.errorf("%s: unknown operator %q", where, rr.Trigger.Operator)
	}
	r.Trigger.Conditions = c.conditions(where, r, rr.Trigger.Conditions)
	if len(r.Trigger.Conditions) == 0 {
		c.warnf("%s: no conditions, rule never fires", where)
	}

	for j, ra := range rr.Actions {
		if a := c.action(fmt.Sprintf("%s actions[%d]", where, j), r, ra); a != nil {
			r.Actions = append(r.Actions, a)
		}
	}
	if !r.Enabled {
		c.warnf("%s: disabled", where)
	}
	return r
}

// checkObject reports references to undeclared objects.
func (c *compiler) checkObject(where, id string) {
	if id != "" && !c.objects[id] {
		c.errorf("%s: unknown object %q", where, id)
	}
}

// needsObject reports conditions and actions that resolve to no object at all.
func (c *compiler) needsObject(where string, r *rules.Rule, id string) {
	if r.Resolve(id) == "" {
		c.errorf("%s: object is required (no rule target)", where)
		return
	}
	c.checkObject(where, id)
}

func (c *compiler) checkFlag(where, name string) {
	if name == "" {
		c.errorf("%s: flag name is required", where)
	} else if !c.flags[name] {
		c.warnf("%s: flag %q is not declared", where, name)
	}
}

func (c *compiler) checkCounter(where, name string) {
	if name == "" {
		c.errorf("%s: counter name is required", where)
	} else if !c.counters[name] {
		c.warnf("%s: counter %q is not declared", where, name)
	}
}

func (c *compiler) conditions(where string, r *rules.Rule, raws []rawCondition) []rules.Condition {
	var out []rules.Condition
	for i, rc := range raws {
		if cond := c.condition(fmt.Sprintf("%s conditions[%d]", where, i), r, rc); cond != nil {
			out = append(out, cond)
		}
	}
	return out
}

func (c *compiler) condition(where string, r *rules.Rule, rc rawCondition) rules.Condition {
	switch rc.Type {
	case "touch":
		tc := rules.TouchCondition{
			Event:       lookup(c, eventNames, rc.Event, "touch event", where),
			Target:      lookup(c, touchTargets, rc.On, "touch target", where),
			ObjectID:    rc.Object,
			Direction:   lookup(c, directionNames, rc.Direction, "direction", where),
			MinVelocity: rc.MinVelocity,
			MinHold:     rc.MinHold,
		}
		switch tc.Target {
		case rules.TouchObject:
			c.needsObject(where, r, rc.Object)
		case rules.TouchRegion:
			tc.Region = c.region(where, rc.Region)
		}
		return tc

	case "collision":
		cc := rules.CollisionCondition{
			Phase:    lookup(c, collisionPhases, rc.Phase, "collision phase", where),
			With:     lookup(c, collisionWith, rc.With, "collision target", where),
			ObjectID: rc.Object,
			OtherID:  rc.Other,
			Pixel:    rc.Pixel,
		}
		c.needsObject(where, r, rc.Object)
		c.checkObject(where, rc.Other)
		if cc.With == rules.WithRegion {
			cc.Region = c.region(where, rc.Region)
		}
		return cc

	case "animation":
		c.needsObject(where, r, rc.Object)
		return rules.AnimationCondition{
			Event:    lookup(c, animEvents, rc.Event, "animation event", where),
			ObjectID: rc.Object,
			Frame:    rc.Frame,
			Loops:    rc.Loops,
		}

	case "time":
		tc := rules.TimeCondition{
			Mode:     lookup(c, timeModes, rc.Mode, "time mode", where),
			At:       rc.At,
			From:     rc.From,
			To:       rc.To,
			Interval: rc.Interval,
		}
		if tc.Mode == rules.TimeInterval && tc.Interval <= 0 {
			c.errorf("%s: interval must be positive", where)
		}
		if tc.Mode == rules.TimeRange && tc.To < tc.From {
			c.errorf("%s: range ends before it starts", where)
		}
		return tc

	case "flag":
		c.checkFlag(where, rc.Name)
		return rules.FlagCondition{
			Name:  rc.Name,
			State: lookup(c, flagStates, rc.State, "flag state", where),
		}

	case "counter":
		c.checkCounter(where, rc.Name)
		cc := rules.CounterCondition{
			Name:      rc.Name,
			Compare:   lookup(c, counterCompares, rc.Compare, "comparison", where),
			Value:     rc.Value,
			Max:       rc.Max,
			Tolerance: rc.Tolerance,
		}
		if cc.Compare == rules.CounterBetween && cc.Max < cc.Value {
			c.errorf("%s: between needs max >= value", where)
		}
		return cc

	case "position":
		c.needsObject(where, r, rc.Object)
		return rules.PositionCondition{
			ObjectID: rc.Object,
			Inside:   rc.Inside == nil || *rc.Inside,
			Region:   c.region(where, rc.Region),
		}

	case "gameState":
		st, ok := world.ParseStatus(rc.Status)
		if !ok {
			c.errorf("%s: unknown status %q", where, rc.Status)
		}
		return rules.GameStateCondition{
			Mode:   lookup(c, stateModes, rc.Mode, "state mode", where),
			Status: st,
		}

	case "random":
		if rc.Probability < 0 || rc.Probability > 1 {
			c.errorf("%s: probability must be within [0,1]", where)
		}
		if rc.Interval < 0 {
			c.errorf("%s: interval must not be negative", where)
		}
		rnd := rules.RandomCondition{
			Probability: rc.Probability,
			Interval:    rc.Interval,
			OnSuccess:   c.conditions(where+" on_success", r, rc.OnSuccess),
			OnFailure:   c.conditions(where+" on_failure", r, rc.OnFailure),
		}
		if rc.Seed != nil {
			rnd.Seeded, rnd.Seed = true, *rc.Seed
		}
		return rnd

	case "expression":
		if _, err := condition.Compile(rc.Expr); err != nil {
			c.errorf("%s: %v", where, err)
		}
		return rules.ExpressionCondition{Source: rc.Expr}

	case "":
		c.errorf("%s: type is required", where)
	default:
		c.errorf("%s: unknown condition type %q", where, rc.Type)
	}
	return nil
}

func (c *compiler) action(where string, r *rules.Rule, ra rawAction) rules.Action {
	switch ra.Type {
	case "gameControl":
		return rules.GameControlAction{
			Op:     lookup(c, controlOps, ra.Op, "control", where),
			Score:  ra.Score,
			EndRun: ra.EndRun,
		}

	case "audio":
		a := rules.AudioAction{Sound: ra.Sound, Music: ra.Music, Volume: ra.Volume, Loop: ra.Loop}
		switch strings.ToLower(ra.Op) {
		case "", "play":
		case "stop":
			a.Stop = true
		default:
			c.errorf("%s: unknown audio op %q", where, ra.Op)
		}
		if a.Sound == "" {
			c.errorf("%s: sound is required", where)
		}
		if a.Volume < 0 || a.Volume > 1 {
			c.errorf("%s: volume must be within [0,1]", where)
		}
		return a

	case "flag":
		c.checkFlag(where, ra.Name)
		fa := rules.FlagAction{Name: ra.Name, Op: lookup(c, flagOps, ra.Op, "flag op", where), Value: true}
		if ra.Value != nil {
			v, ok := ra.Value.(bool)
			if !ok {
				c.errorf("%s: flag value must be true or false", where)
			}
			fa.Value = v
		}
		return fa

	case "counter":
		c.checkCounter(where, ra.Name)
		ca := rules.CounterAction{Name: ra.Name, Op: lookup(c, counterOps, ra.Op, "counter op", where)}
		ca.Value = c.number(where, ra.Value)
		if ca.Op == rules.CounterDivide && ca.Value == 0 {
			c.errorf("%s: division by zero", where)
		}
		return ca

	case "visibility":
		c.needsObject(where, r, ra.Object)
		return rules.VisibilityAction{ObjectID: ra.Object, Op: lookup(c, visibilityOps, ra.Op, "visibility op", where)}

	case "move":
		c.needsObject(where, r, ra.Object)
		m := rules.MoveAction{
			Mode:     lookup(c, moveKinds, ra.Op, "move", where),
			ObjectID: ra.Object,
			Speed:    ra.Speed,
			Duration: ra.Duration,
			Radius:   ra.Radius,
		}
		if m.Mode == rules.MoveDirection {
			m.Direction = lookup(c, compassNames, ra.Direction, "compass direction", where)
		}
		if ra.To != nil {
			c.checkObject(where, ra.To.Object)
			m.Target = rules.Target{ObjectID: ra.To.Object, Point: core.V(ra.To.X, ra.To.Y)}
		}
		switch m.Mode {
		case rules.MoveStraight, rules.MoveTeleport, rules.MoveApproach, rules.MoveOrbit:
			if ra.To == nil {
				c.errorf("%s: %s needs a target", where, m.Mode)
			}
		case rules.MoveSwap:
			if ra.To == nil || ra.To.Object == "" {
				c.errorf("%s: swap needs a target object", where)
			}
		}
		return m

	case "animation":
		c.needsObject(where, r, ra.Object)
		if !ra.Stop && ra.Clip == "" {
			c.errorf("%s: clip is required", where)
		}
		return rules.AnimationAction{ObjectID: ra.Object, Clip: ra.Clip, Stop: ra.Stop}

	case "physics":
		c.needsObject(where, r, ra.Object)
		p := rules.PhysicsAction{
			ObjectID: ra.Object,
			Op:       lookup(c, physicsOps, ra.Op, "physics op", where),
			Vector:   core.V(ra.Vector.X, ra.Vector.Y),
			Property: ra.Property,
		}
		switch p.Op {
		case rules.PhysicsGravity:
			p.Value = c.number(where, ra.Value)
		case rules.PhysicsProperty:
			if !physicsProperties[p.Property] {
				c.errorf("%s: unknown physics property %q", where, p.Property)
			}
			if p.Property == "type" {
				bt, ok := world.ParseBodyType(ra.BodyType)
				if !ok {
					c.errorf("%s: unknown body type %q", where, ra.BodyType)
				}
				p.BodyType = bt
			} else {
				p.Value = c.number(where, ra.Value)
			}
		}
		return p

	case "effect":
		c.needsObject(where, r, ra.Object)
		e := rules.EffectAction{
			ObjectID:  ra.Object,
			Effect:    lookup(c, effectKinds, ra.Effect, "effect", where),
			Duration:  ra.Duration,
			Intensity: ra.Intensity,
			Count:     ra.Count,
		}
		if ra.Color != "" {
			col, ok := core.ParseColor(ra.Color)
			if !ok {
				c.warnf("%s: unknown color %q", where, ra.Color)
			}
			e.Color = col
		}
		return e

	case "score":
		return rules.ScoreAction{Delta: ra.Delta}

	case "message":
		if ra.Text == "" {
			c.warnf("%s: empty message", where)
		}
		return rules.MessageAction{Text: ra.Text, Duration: ra.Duration}

	case "random":
		ra2 := rules.RandomAction{Policy: lookup(c, randomPolicies, ra.Policy, "random policy", where)}
		if len(ra.Options) == 0 {
			c.errorf("%s: random action needs options", where)
		}
		for i, opt := range ra.Options {
			nested := c.action(fmt.Sprintf("%s options[%d]", where, i), r, opt.Action)
			if nested == nil {
				continue
			}
			if opt.Weight < 0 || opt.Probability < 0 {
				c.errorf("%s options[%d]: weights must not be negative", where, i)
			}
			ra2.Options = append(ra2.Options, rules.RandomOption{
				Action:      nested,
				Weight:      opt.Weight,
				Probability: opt.Probability,
			})
		}
		return ra2

	case "":
		c.errorf("%s: type is required", where)
	default:
		c.errorf("%s: unknown action type %q", where, ra.Type)
	}
	return nil
}

// number converts a decoded YAML scalar to float64. Missing values are 0.
func (c *compiler) number(where string, v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	default:
		c.errorf("%s: value must be a number", where)
		return 0
	}
}

func (c *compiler) event(i int, re rawEvent) ScriptEvent {
	where := fmt.Sprintf("script[%d]", i)
	if re.At < 0 {
		c.errorf("%s: at must not be negative", where)
	}
	typ := lookup(c, eventNames, re.Event, "touch event", where)
	data := core.TouchData{
		Pos:          core.V(re.X, re.Y),
		Start:        core.V(re.FromX, re.FromY),
		Velocity:     core.V(re.VX, re.VY),
		Direction:    lookup(c, directionNames, re.Direction, "direction", where),
		HoldDuration: re.Hold,
		Dragging:     typ == core.EventTouchDrag,
	}
	if typ == core.EventTouchDown || typ == core.EventTouchUp || typ == core.EventTouchHold {
		data.Start = data.Pos
	}
	return ScriptEvent{At: re.At, Type: typ, Data: data}
}
