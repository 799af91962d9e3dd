package scenario

// Raw YAML shapes. Everything is decoded loosely first and compiled into the
// typed rule model afterwards so every problem can be reported at once.

type rawScenario struct {
	Name     string       `yaml:"name"`
	Field    rawField     `yaml:"field"`
	Seed     uint64       `yaml:"seed"`
	Flags    []rawFlag    `yaml:"flags"`
	Counters []rawCounter `yaml:"counters"`
	Objects  []rawObject  `yaml:"objects"`
	Rules    []rawRule    `yaml:"rules"`
	Script   []rawEvent   `yaml:"script"`
}

type rawField struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type rawFlag struct {
	Name    string `yaml:"name"`
	Initial bool   `yaml:"initial"`
}

type rawCounter struct {
	Name    string   `yaml:"name"`
	Initial float64  `yaml:"initial"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
}

type rawVec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type rawBody struct {
	Type            string   `yaml:"type"`
	Gravity         *float64 `yaml:"gravity"`
	Friction        float64  `yaml:"friction"`
	Restitution     float64  `yaml:"restitution"`
	Mass            float64  `yaml:"mass"`
	MaxVelocity     float64  `yaml:"max_velocity"`
	AirResistance   float64  `yaml:"air_resistance"`
	AngularVelocity float64  `yaml:"angular_velocity"`
}

type rawClip struct {
	Frames  int     `yaml:"frames"`
	FPS     float64 `yaml:"fps"`
	Loop    bool    `yaml:"loop"`
	Reverse bool    `yaml:"reverse"`
}

type rawObject struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	X        float64            `yaml:"x"`
	Y        float64            `yaml:"y"`
	Width    float64            `yaml:"width"`
	Height   float64            `yaml:"height"`
	Color    string             `yaml:"color"`
	Hidden   bool               `yaml:"hidden"`
	Scale    float64            `yaml:"scale"`
	Velocity rawVec             `yaml:"velocity"`
	Body     *rawBody           `yaml:"body"`
	Clips    map[string]rawClip `yaml:"clips"`
	Clip     string             `yaml:"clip"` // clip playing at start
}

type rawRegion struct {
	Shape  string  `yaml:"shape"` // rect (default) or circle
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"w"`
	H      float64 `yaml:"h"`
	Radius float64 `yaml:"radius"`
}

type rawWindow struct {
	Start float64  `yaml:"start"`
	End   *float64 `yaml:"end"` // omitted means the window never closes
}

type rawRule struct {
	ID       string      `yaml:"id"`
	Name     string      `yaml:"name"`
	Enabled  *bool       `yaml:"enabled"`
	Priority int         `yaml:"priority"`
	Target   string      `yaml:"target"`
	MaxCount int         `yaml:"max_count"`
	Window   *rawWindow  `yaml:"window"`
	Trigger  rawTrigger  `yaml:"trigger"`
	Actions  []rawAction `yaml:"actions"`
}

type rawTrigger struct {
	Operator   string         `yaml:"operator"`
	Conditions []rawCondition `yaml:"conditions"`
}

// rawCondition is the union of every condition's fields, selected by Type.
type rawCondition struct {
	Type string `yaml:"type"`

	// touch
	Event       string     `yaml:"event"`
	On          string     `yaml:"on"` // object (default), stage, region
	Object      string     `yaml:"object"`
	Region      *rawRegion `yaml:"region"`
	Direction   string     `yaml:"direction"`
	MinVelocity float64    `yaml:"min_velocity"`
	MinHold     float64    `yaml:"min_hold"`

	// collision
	Phase string `yaml:"phase"`
	With  string `yaml:"with"` // object (default), background, region
	Other string `yaml:"other"`
	Pixel bool   `yaml:"pixel"`

	// animation
	Frame int `yaml:"frame"`
	Loops int `yaml:"loops"`

	// time
	Mode     string  `yaml:"mode"`
	At       float64 `yaml:"at"`
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Interval float64 `yaml:"interval"`

	// flag, counter
	Name      string  `yaml:"name"`
	State     string  `yaml:"state"`
	Compare   string  `yaml:"compare"`
	Value     float64 `yaml:"value"`
	Max       float64 `yaml:"max"`
	Tolerance float64 `yaml:"tolerance"`

	// position
	Inside *bool `yaml:"inside"`

	// gameState
	Status string `yaml:"status"`

	// random
	Probability float64        `yaml:"probability"`
	Seed        *uint64        `yaml:"seed"`
	OnSuccess   []rawCondition `yaml:"on_success"`
	OnFailure   []rawCondition `yaml:"on_failure"`

	// expression
	Expr string `yaml:"expr"`
}

type rawTarget struct {
	Object string  `yaml:"object"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// rawAction is the union of every action's fields, selected by Type.
type rawAction struct {
	Type   string `yaml:"type"`
	Op     string `yaml:"op"`
	Object string `yaml:"object"`

	// gameControl
	Score  int  `yaml:"score"`
	EndRun bool `yaml:"end_run"`

	// audio
	Sound  string  `yaml:"sound"`
	Music  bool    `yaml:"music"`
	Volume float64 `yaml:"volume"`
	Loop   bool    `yaml:"loop"`

	// flag, counter, physics property; a bool for flags, a number otherwise
	Name  string `yaml:"name"`
	Value any    `yaml:"value"`

	// move
	Direction string     `yaml:"direction"`
	Speed     float64    `yaml:"speed"`
	To        *rawTarget `yaml:"to"`
	Duration  float64    `yaml:"duration"`
	Radius    float64    `yaml:"radius"`

	// animation
	Clip string `yaml:"clip"`
	Stop bool   `yaml:"stop"`

	// physics
	Vector   rawVec `yaml:"vector"`
	Property string `yaml:"property"`
	BodyType string `yaml:"body_type"`

	// effect
	Effect    string  `yaml:"effect"`
	Intensity float64 `yaml:"intensity"`
	Count     int     `yaml:"count"`
	Color     string  `yaml:"color"`

	// score
	Delta int `yaml:"delta"`

	// message
	Text string `yaml:"text"`

	// random
	Policy  string      `yaml:"policy"`
	Options []rawOption `yaml:"options"`
}

type rawOption struct {
	Weight      float64   `yaml:"weight"`
	Probability float64   `yaml:"probability"`
	Action      rawAction `yaml:"action"`
}

type rawEvent struct {
	At        float64 `yaml:"at"`
	Event     string  `yaml:"event"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	FromX     float64 `yaml:"from_x"`
	FromY     float64 `yaml:"from_y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Direction string  `yaml:"direction"`
	Hold      float64 `yaml:"hold"`
}
