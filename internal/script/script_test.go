package script

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 500

func deg(d float64) float64 { return d * math.Pi / 180 }

func TestScriptModeTable(t *testing.T) {
	tests := []struct {
		name string
		mode uint8
		at   float64
		want Setpoint
	}{
		{"idle", ModeIdle, 1.3, Setpoint{}},
		{"circle", ModeCircle, 2, Setpoint{Throttle: 0.3, Turn: 0.2, Override: true}},
		{"figure8 A quarter", ModeFigure8A, 1, Setpoint{Throttle: 0.3, Turn: 0.25, Override: true}},
		{"figure8 B quarter", ModeFigure8B, 1.5, Setpoint{Throttle: 0.3, Turn: 0.20, Override: true}},
		{"figure8 C three quarters", ModeFigure8C, 2.25, Setpoint{Throttle: 0.3, Turn: -0.30, Override: true}},
		{"spin", ModeSpin, 0.7, Setpoint{Turn: 0.35, Override: true}},
		{"stop-and-go on", ModeStopAndGo, 0.5, Setpoint{Throttle: 0.3, Override: true}},
		{"stop-and-go off", ModeStopAndGo, 1.5, Setpoint{Override: true}},
		{"stop-and-go next period", ModeStopAndGo, 2.25, Setpoint{Throttle: 0.3, Override: true}},
		{"square first leg", ModeSquare, 0.5, Setpoint{Throttle: 0.3, Override: true}},
		{"square first corner", ModeSquare, 1.25, Setpoint{Turn: 0.35, Override: true}},
		{"square second leg", ModeSquare, 2, Setpoint{Throttle: 0.3, Override: true}},
		{"square second corner", ModeSquare, 2.75, Setpoint{Turn: 0.35, Override: true}},
		{"square fourth leg", ModeSquare, 5, Setpoint{Throttle: 0.3, Override: true}},
		{"square last corner", ModeSquare, 5.75, Setpoint{Turn: 0.35, Override: true}},
		{"square wraps", ModeSquare, 6.5, Setpoint{Throttle: 0.3, Override: true}},
		{"slalom", ModeSlalom, 0.75, Setpoint{Throttle: 0.3, Turn: 0.40, Override: true}},
		{"hold up", ModeHoldUp, 3, Setpoint{TargetPitch: deg(5), Override: true}},
		{"hold down", ModeHoldDown, 3, Setpoint{TargetPitch: deg(-5), Override: true}},
		{"oscillate quarter", ModeOscillate, 2.5, Setpoint{TargetPitch: deg(3), Override: true}},
		{"unknown is idle", 42, 1, Setpoint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(DefaultParams())
			got := s.eval(tt.mode, tt.at)
			assert.InDelta(t, tt.want.Throttle, got.Throttle, 1e-9)
			assert.InDelta(t, tt.want.Turn, got.Turn, 1e-9)
			assert.InDelta(t, tt.want.TargetPitch, got.TargetPitch, 1e-9)
			assert.Equal(t, tt.want.Override, got.Override)
		})
	}
}

func TestScriptClockAdvancesOnlyForPositiveDT(t *testing.T) {
	s := New(DefaultParams())
	s.Step(ModeCircle, 0.1)
	s.Step(ModeCircle, 0)
	s.Step(ModeCircle, -0.2)
	assert.InDelta(t, 0.1, s.Elapsed(), 1e-12)
}

func TestScriptResetsOnModeChange(t *testing.T) {
	s := New(DefaultParams())
	for i := 0; i < 1234; i++ {
		s.Step(ModeSlalom, tick)
	}
	require.Greater(t, s.Elapsed(), 2.0)

	sp := s.Step(ModeFigure8A, tick)
	assert.Equal(t, 0.0, sp.Turn, "first tick after switching evaluates sin(0)")
	assert.InDelta(t, tick, s.Elapsed(), 1e-12)
	assert.Equal(t, ModeFigure8A, s.Mode())

	sp = s.Step(ModeFigure8A, tick)
	assert.InDelta(t, 0.25*math.Sin(2*math.Pi*tick/4), sp.Turn, 1e-12)
}

func TestScriptFigure8Periodic(t *testing.T) {
	s := New(DefaultParams())
	var turns []float64
	for i := 0; i < 4000; i++ {
		turns = append(turns, s.Step(ModeFigure8A, tick).Turn)
	}
	// 2000 ticks is exactly one 4 s period.
	assert.InDelta(t, turns[100], turns[2100], 1e-9)
	for _, v := range turns {
		assert.LessOrEqual(t, math.Abs(v), 0.25+1e-12)
	}
}

func TestRampInterpolatesAndTerminates(t *testing.T) {
	r := NewRamp(DefaultRampDuration, DefaultRampFrom, 0)
	_, ok := r.Step(tick)
	assert.False(t, ok, "inactive until started")

	r.Start()
	first, ok := r.Step(0.75)
	require.True(t, ok)
	assert.InDelta(t, deg(-25), first, 1e-12)

	mid, ok := r.Step(0.5)
	require.True(t, ok)
	assert.InDelta(t, deg(-12.5), mid, 1e-12)

	late, ok := r.Step(0.25)
	require.True(t, ok)
	assert.InDelta(t, deg(-25)/1.5*0.25, late, 1e-12)

	_, ok = r.Step(0.25)
	assert.False(t, ok, "t_norm reached 1")
	assert.False(t, r.Active())
}

func TestRampMonotonic(t *testing.T) {
	r := NewRamp(DefaultRampDuration, DefaultRampFrom, 0)
	r.Start()
	prev := math.Inf(-1)
	n := 0
	for {
		v, ok := r.Step(tick)
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, v, prev)
		assert.LessOrEqual(t, v, 0.0)
		prev = v
		n++
	}
	assert.InDelta(t, 750, n, 1)
}

func TestRampCancel(t *testing.T) {
	r := NewRamp(1, -1, 0)
	r.Start()
	r.Step(0.1)
	r.Cancel()
	_, ok := r.Step(0.1)
	assert.False(t, ok)

	r.Start()
	v, ok := r.Step(0.1)
	require.True(t, ok)
	assert.Equal(t, -1.0, v, "restart begins from the first sample")
}

func TestRampZeroDuration(t *testing.T) {
	r := NewRamp(0, -1, 0)
	r.Start()
	_, ok := r.Step(tick)
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	require.Len(t, Catalog, int(ModeOscillate)+1)
	for i, p := range Catalog {
		assert.Equal(t, uint8(i), p.Mode)
	}
	p, ok := Lookup(ModeSquare)
	require.True(t, ok)
	assert.Equal(t, "Square", p.Name)

	_, ok = Lookup(200)
	assert.False(t, ok)
}
