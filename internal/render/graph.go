package render

import (
	"fmt"
	"strconv"
	"strings"
)

// ComposeLoopFilter assembles the complete filter graph for rendering the
// looping clip from a still image: scale to target resolution, the zoompan
// motion stage, then the compiled effect chain. When the chain carries a
// steam layer the graph splits into two labeled streams and merges them back
// with an overlay before the remaining post filters run.
func ComposeLoopFilter(width, height, fps int, motion MotionProfile, chain EffectChain) string {
	resolution := fmt.Sprintf("%dx%d", width, height)
	base := []string{
		"scale=" + resolution,
		fmt.Sprintf(
			"zoompan=z='%s':x='(iw-iw/zoom)/2+%s':y='(ih-ih/zoom)/2+%s':d=1:s=%s:fps=%d",
			motion.Zoom, motion.PanX, motion.PanY, resolution, fps,
		),
	}

	if !chain.RequiresSplit() {
		return strings.Join(append(base, chain.Post...), ",")
	}

	steam := chain.Steam
	overlay := fmt.Sprintf("[base][steam2]overlay=x='%s':y='%s'", steam.OverlayX, steam.OverlayY)
	if len(chain.Post) > 0 {
		overlay = overlay + "," + strings.Join(chain.Post, ",")
	}
	return fmt.Sprintf(
		"%s,format=rgba,split=2[base][steam];[steam]%s[steam2];%s",
		strings.Join(base, ","), steam.Filters, overlay,
	)
}

// formatFloat renders a float with the fewest digits that round-trip, so
// periodic expressions keep full precision without trailing zero noise.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
