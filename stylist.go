package invitepdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/valyala/fasttemplate"

	"github.com/evitely/go-invitepdf/internal/assets"
)

// hiddenSectionTemplates are the selector shapes generated per hidden
// section identifier. Authors opt a section out of static capture by
// matching any of these patterns, without bespoke CSS per section.
var hiddenSectionTemplates = []*fasttemplate.Template{
	fasttemplate.New(`[data-section="{id}"]`, "{", "}"),
	fasttemplate.New(`[data-section*="{id}"]`, "{", "}"),
	fasttemplate.New(`.{id}-section`, "{", "}"),
	fasttemplate.New(`.{id}-timer`, "{", "}"),
	fasttemplate.New(`.{id}-player`, "{", "}"),
	fasttemplate.New(`.{id}-form`, "{", "}"),
	fasttemplate.New(`.{id}-widget`, "{", "}"),
}

// DefaultHiddenSections lists section identifiers that cannot function in
// a static captured document: timers, players, live forms, maps, chat
// widgets, and live feeds.
func DefaultHiddenSections() []string {
	return []string{
		"countdown",
		"timer",
		"video",
		"audio",
		"music",
		"rsvp",
		"guestbook",
		"map",
		"chat",
		"livestream",
		"feed",
	}
}

// applyCaptureModeJS tags the document root with capture-mode markers so
// page-authored styles can react, then installs the capture stylesheet.
const applyCaptureModeJS = `(css) => {
	const root = document.documentElement;
	root.classList.add('pdf-capture');
	root.setAttribute('data-pdf-capture', 'true');
	if (document.body) {
		document.body.classList.add('pdf-capture');
	}
	let style = document.getElementById('invitepdf-capture-style');
	if (!style) {
		style = document.createElement('style');
		style.id = 'invitepdf-capture-style';
		document.head.appendChild(style);
	}
	style.textContent = css;
	return true;
}`

// stylist makes a page behave as a standalone capture target: it marks
// capture mode and injects the normalization and hide stylesheets.
// The stylesheet is compiled once at service construction and reused
// across renders.
type stylist struct {
	css string
}

func newStylist(identifiers []string) (*stylist, error) {
	normalize, err := assets.Style("normalize")
	if err != nil {
		return nil, fmt.Errorf("loading normalize style: %w", err)
	}
	hide, err := assets.Style("hide")
	if err != nil {
		return nil, fmt.Errorf("loading hide style: %w", err)
	}

	var buf strings.Builder
	buf.WriteString(normalize)
	buf.WriteString("\n")
	buf.WriteString(hide)
	buf.WriteString("\n")
	buf.WriteString(buildHiddenSectionCSS(identifiers))

	return &stylist{css: buf.String()}, nil
}

// apply installs the capture-mode markers and stylesheet on the page.
func (st *stylist) apply(ctx context.Context, page pageDriver) error {
	if _, err := page.Eval(ctx, applyCaptureModeJS, st.css); err != nil {
		return fmt.Errorf("applying capture styles: %w", err)
	}
	return nil
}

// buildHiddenSectionCSS expands each identifier through every selector
// template into one hide rule. Identifiers are deduplicated with order
// preserved.
func buildHiddenSectionCSS(identifiers []string) string {
	ids := lo.Uniq(lo.Filter(identifiers, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	}))
	if len(ids) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("/* Sections that cannot function in a static document. */\n")
	for _, id := range ids {
		vars := map[string]any{"id": strings.TrimSpace(id)}
		selectors := lo.Map(hiddenSectionTemplates, func(t *fasttemplate.Template, _ int) string {
			return t.ExecuteString(vars)
		})
		buf.WriteString(strings.Join(selectors, ",\n"))
		buf.WriteString(" {\n  display: none !important;\n}\n")
	}
	return buf.String()
}
