package condition

import (
	"github.com/vovakirdan/rulestage/internal/rules"
)

type randomState struct {
	checked   bool
	lastCheck float64
	draws     uint64
}

// randomDraw runs a Bernoulli trial at most once per interval. Between
// draws the condition is false.
func (e *Evaluator) randomDraw(r *rules.Rule, key string, c rules.RandomCondition, env Env) bool {
	k := randomKey{rule: r.ID, path: key}
	st, ok := e.random[k]
	if !ok {
		st = &randomState{}
		e.random[k] = st
	}

	interval := c.Interval
	if interval <= 0 {
		interval = e.DefaultInterval
	}
	now := env.Ctx.State.Elapsed
	if st.checked && interval > 0 && now-st.lastCheck < interval {
		return false
	}
	st.checked = true
	st.lastCheck = now

	var roll float64
	if c.Seeded {
		roll = Unit(SplitMix64(c.Seed + st.draws))
	} else {
		roll = e.rng.Float64()
	}
	st.draws++

	if roll < c.Probability {
		if len(c.OnSuccess) == 0 {
			return true
		}
		return e.group(r, key+"/s", rules.OpAnd, c.OnSuccess, env)
	}
	if len(c.OnFailure) == 0 {
		return false
	}
	return e.group(r, key+"/f", rules.OpAnd, c.OnFailure, env)
}

// SplitMix64 is the splitmix64 finalizer, used to turn seed+counter into
// a well-mixed 64-bit value.
func SplitMix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Unit maps a 64-bit value to [0, 1).
func Unit(x uint64) float64 {
	return float64(x>>11) / (1 << 53)
}
