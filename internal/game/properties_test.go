package game

import (
	"math"
	"testing"

	"github.com/playmatatu/poolroom/internal/config"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSplitPowerConservesPower(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		power := rapid.Float64Range(0, 2).Draw(t, "power")
		angle := rapid.Float64Range(-180, 360).Draw(t, "angle")

		kept, transferred := splitPower(power, angle)
		require.GreaterOrEqual(t, kept, 0.0)
		require.GreaterOrEqual(t, transferred, 0.0)
		require.InDelta(t, power, kept+transferred, 1e-12)
	})
}

func TestDeflectHeadingTurnsQuarter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ball := rapid.Float64Range(-720, 720).Draw(t, "ball")
		target := rapid.Float64Range(-720, 720).Draw(t, "target")

		turned := deflectHeading(ball, target)
		require.InDelta(t, 90, math.Abs(turned-ball), 1e-9)
	})
}

func TestRandomShotsKeepInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		params := config.DefaultPhysics()
		params.Incidence = rapid.SampledFrom([]string{config.IncidenceHeading, config.IncidenceLineOfCenters}).Draw(t, "incidence")
		engine := NewStandardEngine(params)

		angles := rapid.SliceOfN(rapid.Float64Range(0, 360), 1, 4).Draw(t, "angles")
		for _, angle := range angles {
			engine.Shoot(angle)
			for frame := 0; frame < 150; frame++ {
				engine.Step()
				for _, b := range engine.Balls {
					require.GreaterOrEqual(t, b.Power, 0.0, "ball %d", b.ID)
					require.True(t, engine.Table.Contains(b.Position, b.Radius), "ball %d left the felt", b.ID)
				}
			}
		}
	})
}
