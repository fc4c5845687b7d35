package render

import (
	"fmt"
	"strings"
)

// subtitleGap is the vertical spacing between a title and its subtitle.
const subtitleGap = 16

// DrawtextOptions describes one text-overlay filter stage. The text itself
// comes from a side-channel file so arbitrary or multi-line strings never
// need escaping inside the filter expression.
type DrawtextOptions struct {
	TextFile  string
	FontFile  string
	Font      string
	FontSize  int
	FontColor string
	X         string
	Y         string

	BorderColor string
	BorderWidth int

	BoxColor   string
	BoxBorderW *int

	ShadowColor string
	ShadowX     *int
	ShadowY     *int
}

// BuildDrawtext compiles one drawtext filter stage. Optional border, box and
// shadow sub-stages are appended only when fully specified; a partially
// specified one is dropped entirely rather than emitting a broken stage.
func BuildDrawtext(opts DrawtextOptions) string {
	values := []string{
		"textfile=" + escapeFilterValue(opts.TextFile),
	}

	if strings.TrimSpace(opts.FontFile) != "" {
		values = append(values, "fontfile="+escapeFilterValue(opts.FontFile))
	} else if strings.TrimSpace(opts.Font) != "" {
		values = append(values, "font="+escapeFilterValue(opts.Font))
	}

	values = append(values,
		"fontcolor="+fallback(opts.FontColor, "white"),
		fmt.Sprintf("fontsize=%d", opts.FontSize),
		"x="+fallback(opts.X, "(w-text_w)/2"),
		"y="+fallback(opts.Y, "(h-text_h)/2"),
	)

	if opts.BorderColor != "" && opts.BorderWidth > 0 {
		values = append(values,
			"bordercolor="+opts.BorderColor,
			fmt.Sprintf("borderw=%d", opts.BorderWidth),
		)
	}

	if opts.BoxColor != "" && opts.BoxBorderW != nil && *opts.BoxBorderW > 0 {
		values = append(values,
			"box=1",
			"boxcolor="+opts.BoxColor,
			fmt.Sprintf("boxborderw=%d", *opts.BoxBorderW),
		)
	}

	if opts.ShadowColor != "" && opts.ShadowX != nil && opts.ShadowY != nil {
		values = append(values,
			"shadowcolor="+opts.ShadowColor,
			fmt.Sprintf("shadowx=%d", *opts.ShadowX),
			fmt.Sprintf("shadowy=%d", *opts.ShadowY),
		)
	}

	return "drawtext=" + strings.Join(values, ":")
}

// ChainDrawtext stacks a subtitle stage under a title stage in one pass.
// When the subtitle has no explicit vertical position it sits below the
// title, offset by the title's font size plus a fixed gap.
func ChainDrawtext(title, subtitle DrawtextOptions) string {
	if strings.TrimSpace(subtitle.TextFile) == "" {
		return BuildDrawtext(title)
	}
	if strings.TrimSpace(subtitle.Y) == "" {
		subtitle.Y = fmt.Sprintf("%s+%d", fallback(title.Y, "(h-text_h)/2"), title.FontSize+subtitleGap)
	}
	return BuildDrawtext(title) + "," + BuildDrawtext(subtitle)
}

// escapeFilterValue escapes the characters the filter-graph syntax reserves
// in parameter values. The order matters: backslash first, then colon, then
// quote, or the later substitutions would corrupt the earlier ones.
func escapeFilterValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, ":", `\:`)
	value = strings.ReplaceAll(value, "'", `\'`)
	return value
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
