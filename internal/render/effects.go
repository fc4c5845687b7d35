package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultVignetteAngle is used when the configured vignette strength is
// absent or cannot be parsed.
const DefaultVignetteAngle = "PI/5"

// EffectParams collects the per-effect knobs from configuration.
type EffectParams struct {
	SwayDegrees   float64
	FlickerAmount float64
	HueDegrees    float64
	VignetteAngle string
	Steam         SteamParams
}

// SteamParams parameterizes the translucent drifting overlay layer.
type SteamParams struct {
	Opacity float64
	Blur    float64
	Noise   int
	DriftX  float64
	DriftY  float64
}

// SteamLayer is the compiled steam sub-graph: the filter chain applied to the
// duplicated stream and the drifting overlay position expressions used to
// composite it back.
type SteamLayer struct {
	Filters  string
	OverlayX string
	OverlayY string
}

// EffectChain is the compiled set of effect stages for one clip. Post stages
// are plain comma-chain filters; Steam, when present, requires a split and an
// overlay merge, with Post applied after the merge.
type EffectChain struct {
	Post  []string
	Steam *SteamLayer
}

// RequiresSplit reports whether composing the chain needs labeled sub-graphs.
func (c EffectChain) RequiresSplit() bool {
	return c.Steam != nil
}

// effectOrder fixes the stage ordering regardless of how the config lists
// effect names. Steam is compiled last and owns its own sub-graph; every
// other stage is appended after the steam composite.
var effectOrder = []struct {
	name    string
	aliases []string
	build   func(EffectParams, float64) (string, bool)
}{
	{name: "sway", build: buildSway},
	{name: "flicker", build: buildFlicker},
	{name: "color_drift", aliases: []string{"hue"}, build: buildColorDrift},
	{name: "vignette", build: buildVignette},
}

// CompileEffects turns the requested effect names into an ordered chain of
// filter stages. periodSeconds is the clip duration; every oscillation
// completes exactly one cycle per clip so the loop stays seamless.
func CompileEffects(names []string, params EffectParams, periodSeconds float64) EffectChain {
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			requested[name] = true
		}
	}

	period := math.Max(periodSeconds, 0.1)

	var chain EffectChain
	for _, effect := range effectOrder {
		enabled := requested[effect.name]
		for _, alias := range effect.aliases {
			enabled = enabled || requested[alias]
		}
		if !enabled {
			continue
		}
		if stage, ok := effect.build(params, period); ok {
			chain.Post = append(chain.Post, stage)
		}
	}

	if requested["steam"] {
		chain.Steam = buildSteam(params.Steam, period)
	}

	return chain
}

func buildSway(p EffectParams, period float64) (string, bool) {
	degrees := math.Max(p.SwayDegrees, 0)
	if degrees == 0 {
		return "", false
	}
	radians := degrees * math.Pi / 180
	expr := fmt.Sprintf("%s*sin(2*PI*t/%s)", formatFloat(radians), formatFloat(period))
	return fmt.Sprintf("rotate='%s':c=black@0:ow=iw:oh=ih", expr), true
}

func buildFlicker(p EffectParams, period float64) (string, bool) {
	amount := math.Max(p.FlickerAmount, 0)
	if amount == 0 {
		return "", false
	}
	return fmt.Sprintf("eq=brightness='%s*sin(2*PI*t/%s)'", formatFloat(amount), formatFloat(period)), true
}

func buildColorDrift(p EffectParams, period float64) (string, bool) {
	degrees := math.Max(p.HueDegrees, 0)
	if degrees == 0 {
		return "", false
	}
	return fmt.Sprintf("hue=h='%s*sin(2*PI*t/%s)'", formatFloat(degrees), formatFloat(period)), true
}

func buildVignette(p EffectParams, _ float64) (string, bool) {
	return "vignette=angle=" + parseVignetteAngle(p.VignetteAngle), true
}

func buildSteam(p SteamParams, period float64) *SteamLayer {
	opacity := clamp(p.Opacity, 0, 1)
	blur := math.Max(p.Blur, 0)
	noise := p.Noise
	if noise < 0 {
		noise = 0
	}
	driftX := math.Max(p.DriftX, 0)
	driftY := math.Max(p.DriftY, 0)

	filters := strings.Join([]string{
		"crop=w=iw*0.45:h=ih*0.6:x=iw*0.275:y=ih*0.32",
		fmt.Sprintf("gblur=sigma=%s:steps=2", formatFloat(blur)),
		fmt.Sprintf("noise=alls=%d:allf=t+u", noise),
		"eq=brightness=0.04",
		fmt.Sprintf("colorchannelmixer=aa=%s", formatFloat(opacity)),
	}, ",")

	periodStr := formatFloat(period)
	return &SteamLayer{
		Filters:  filters,
		OverlayX: fmt.Sprintf("(W-w)/2 + (W*%s)*sin(2*PI*t/%s)", formatFloat(driftX), periodStr),
		OverlayY: fmt.Sprintf("(H*0.5) - (H*%s)*sin(2*PI*t/%s+PI/3)", formatFloat(driftY), periodStr),
	}
}

var (
	piOverNumber = regexp.MustCompile(`^PI([/*])([0-9.]+)$`)
	numberOverPi = regexp.MustCompile(`^([0-9.]+)([/*])PI$`)
)

// parseVignetteAngle accepts either a literal numeric angle or a small
// symbolic fraction-of-PI expression ("PI/5", "2*PI"). Anything else falls
// back to the default strength rather than failing the render.
func parseVignetteAngle(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return DefaultVignetteAngle
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return fmt.Sprintf("%.4f", v)
	}

	normalized := strings.ToUpper(strings.Join(strings.Fields(text), ""))
	if normalized == "PI" {
		return "PI"
	}
	if m := piOverNumber.FindStringSubmatch(normalized); m != nil {
		if _, err := strconv.ParseFloat(m[2], 64); err == nil {
			return normalized
		}
		return DefaultVignetteAngle
	}
	if m := numberOverPi.FindStringSubmatch(normalized); m != nil {
		if _, err := strconv.ParseFloat(m[1], 64); err == nil {
			return normalized
		}
	}
	return DefaultVignetteAngle
}

func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(maxVal, value))
}
