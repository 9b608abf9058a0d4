package normalize

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"cbctcli/internal/header"
)

// Context carries what a correction needs beyond the record itself: the
// directory that held the source file, a way to count the files in it, and
// a logger for rejected vendor data.
type Context struct {
	Dir     string
	Counter FileCounter
	Logger  *slog.Logger
}

// FileCounter counts regular files beneath a directory
type FileCounter interface {
	Count(dir string) (int, error)
}

// Rule is a vendor correction: it fires when the record's trimmed
// manufacturer name contains Vendor as a substring.
type Rule struct {
	Vendor string
	Apply  func(rec *header.Record, ctx Context)
}

// rules in dispatch order; at most one fires per record
var rules = []Rule{
	{Vendor: "Morita", Apply: applyMorita},
	{Vendor: "Planmeca", Apply: applyPlanmeca},
}

// Apply dispatches the matching vendor correction, if any. Records from
// unknown vendors pass through unchanged, as do records with no
// manufacturer attribute.
func Apply(rec *header.Record, ctx Context) {
	manufacturer, ok := rec.Manufacturer()
	if !ok {
		return
	}
	for _, rule := range rules {
		if strings.Contains(manufacturer, rule.Vendor) {
			rule.Apply(rec, ctx)
			return
		}
	}
}

// dapRe matches the dose annotation the Morita Accuitomo writes into the
// image comments, e.g. "DAP:123mGycm2".
var dapRe = regexp.MustCompile(`DAP:(\d+)mGycm2`)

// applyMorita recovers the dose area product from the free-text comments
// attribute. The Accuitomo leaves the dose attribute itself unreliable, so
// a successful extraction overwrites it. An absent or unparseable comment
// leaves the record as-is.
func applyMorita(rec *header.Record, ctx Context) {
	comments, ok := rec.GetString(header.AttrImageComments)
	if !ok {
		ctx.Logger.Warn("Morita record has no image comments, dose not extracted",
			slog.String("file", rec.Path()))
		return
	}

	m := dapRe.FindStringSubmatch(comments)
	if m == nil {
		ctx.Logger.Warn("Morita dose annotation not found in image comments",
			slog.String("file", rec.Path()),
			slog.String("comments", comments))
		return
	}

	dose, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		ctx.Logger.Warn("Morita dose annotation is not a number",
			slog.String("file", rec.Path()),
			slog.String("matched", m[1]))
		return
	}
	rec.SetFloat(header.AttrDoseAreaProduct, dose)
}

// applyPlanmeca fixes two ProMax quirks: the slice count attribute is never
// populated (recovered by counting the files in the examination folder) and
// the reported dose is 1/100 of the true mGycm2 value.
func applyPlanmeca(rec *header.Record, ctx Context) {
	n, err := ctx.Counter.Count(ctx.Dir)
	if err != nil {
		ctx.Logger.Warn("failed to count examination folder, slice count not set",
			slog.String("dir", ctx.Dir),
			slog.String("error", err.Error()))
	} else {
		rec.SetInt(header.AttrImagesInAcq, int64(n))
	}

	dose, ok := rec.GetFloat(header.AttrDoseAreaProduct)
	if !ok {
		ctx.Logger.Warn("Planmeca record has no dose attribute, scale not applied",
			slog.String("file", rec.Path()))
		return
	}
	rec.SetFloat(header.AttrDoseAreaProduct, dose*100.0)
}
