package render

import (
	"fmt"
	"strings"
)

// MotionProfile holds the symbolic zoompan expressions that drive the slow
// camera animation over a still image. All three expressions are functions of
// the output frame index `on`, completing exactly one cycle across the clip
// so the rendered loop is seamless.
type MotionProfile struct {
	Zoom string
	PanX string
	PanY string
}

// BuildMotion produces the zoom and pan expressions for a motion style.
// Unrecognized styles silently degrade to "smooth". Negative amounts are
// treated as zero.
func BuildMotion(style string, zoomAmount, panAmount float64, frameCount int) MotionProfile {
	if zoomAmount < 0 {
		zoomAmount = 0
	}
	if panAmount < 0 {
		panAmount = 0
	}
	cycle := frameCount - 1
	if cycle < 1 {
		cycle = 1
	}

	phase := fmt.Sprintf("(2*PI*on/%d)", cycle)
	phase2 := fmt.Sprintf("(4*PI*on/%d)", cycle)

	var zoomMix, panXMix, panYMix string
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "cinematic":
		// Deliberately asymmetric phase offsets so the drift never looks
		// like it repeats, even though every term is periodic over the clip.
		zoomMix = fmt.Sprintf("(0.7*sin(%s)+0.3*sin(%s+PI/3))", phase, phase2)
		panXMix = fmt.Sprintf("(0.8*sin(%s+PI/6)+0.2*sin(%s))", phase, phase2)
		panYMix = fmt.Sprintf("(0.8*cos(%s+PI/3)+0.2*cos(%s+PI/4))", phase, phase2)
	case "orbit":
		zoomMix = fmt.Sprintf("sin(%s)", phase)
		panXMix = fmt.Sprintf("sin(%s)", phase)
		panYMix = fmt.Sprintf("sin(%s+PI/2)", phase)
	default:
		zoomMix = fmt.Sprintf("sin(%s)", phase)
		panXMix = fmt.Sprintf("sin(%s)", phase)
		panYMix = fmt.Sprintf("cos(%s)", phase)
	}

	return MotionProfile{
		Zoom: fmt.Sprintf("%s+%s*%s", formatFloat(1+zoomAmount), formatFloat(zoomAmount), zoomMix),
		PanX: fmt.Sprintf("((iw-iw/zoom)/2)*%s*%s", formatFloat(panAmount), panXMix),
		PanY: fmt.Sprintf("((ih-ih/zoom)/2)*%s*%s", formatFloat(panAmount), panYMix),
	}
}
