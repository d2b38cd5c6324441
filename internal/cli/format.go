package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gran/internal/entity"
)

// One line per record: synthetic id, status glyph where the type has one,
// the main text, then tags. Timestamps are local and minute-precision.

const displayTime = "2006-01-02 15:04"

func formatRecord(id int, rec entity.Record) string {
	switch r := rec.(type) {
	case *entity.Task:
		return formatTask(id, r)
	case *entity.TimeAudit:
		return formatTimeAudit(id, r)
	case *entity.Event:
		return formatSpanLike(id, "event", deref(r.Description), r.Start, r.End, r.Tags)
	case *entity.Timespan:
		return formatSpanLike(id, "span", deref(r.Description), r.Start, r.End, r.Tags)
	case *entity.Log:
		return formatStamped(id, deref(r.Message), r.Created, r.Tags)
	case *entity.Note:
		return formatStamped(id, deref(r.Title), r.Created, r.Tags)
	case *entity.Tracker:
		return formatTracker(id, r)
	case *entity.Entry:
		return formatEntry(id, r)
	}

	return fmt.Sprintf("%3d  %s", id, rec.EntityID())
}

func formatTask(id int, t *entity.Task) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  [%s] %s", id, taskGlyph(t), deref(t.Description))

	if t.Due != nil {
		fmt.Fprintf(&b, "  due:%s", t.Due.Local().Format(displayTime))
	}

	if t.Scheduled != nil {
		fmt.Fprintf(&b, "  sched:%s", t.Scheduled.Local().Format(displayTime))
	}

	appendTags(&b, t.Tags)

	return b.String()
}

func taskGlyph(t *entity.Task) string {
	switch {
	case t.Deleted != nil:
		return "D"
	case t.Cancelled != nil:
		return "C"
	case t.Completed != nil:
		return "x"
	case t.Started != nil:
		return ">"
	default:
		return " "
	}
}

func formatTimeAudit(id int, a *entity.TimeAudit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  %s", id, deref(a.Description))

	if a.Start != nil {
		fmt.Fprintf(&b, "  %s", a.Start.Local().Format(displayTime))
	}

	if a.End != nil {
		fmt.Fprintf(&b, " .. %s", a.End.Local().Format(displayTime))
	} else if a.Start != nil {
		b.WriteString(" .. (running)")
	}

	appendTags(&b, a.Tags)

	return b.String()
}

func formatSpanLike(id int, kind, text string, start, end *time.Time, tags []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  %s: %s", id, kind, text)

	if start != nil {
		fmt.Fprintf(&b, "  %s", start.Local().Format(displayTime))
	}

	if end != nil {
		fmt.Fprintf(&b, " .. %s", end.Local().Format(displayTime))
	}

	appendTags(&b, tags)

	return b.String()
}

func formatStamped(id int, text string, created time.Time, tags []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  %s  %s", id, created.Local().Format(displayTime), text)
	appendTags(&b, tags)

	return b.String()
}

func formatTracker(id int, t *entity.Tracker) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  %s", id, deref(t.Name))

	if t.Unit != nil {
		fmt.Fprintf(&b, " (%s)", *t.Unit)
	}

	if t.Archived != nil {
		b.WriteString("  [archived]")
	}

	appendTags(&b, t.Tags)

	return b.String()
}

func formatEntry(id int, e *entity.Entry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%3d  %s", id, strconv.FormatFloat(e.Value, 'f', -1, 64))

	if e.Occurred != nil {
		fmt.Fprintf(&b, "  %s", e.Occurred.Local().Format(displayTime))
	}

	if e.Note != nil {
		fmt.Fprintf(&b, "  %s", *e.Note)
	}

	appendTags(&b, e.Tags)

	return b.String()
}

func appendTags(b *strings.Builder, tags []string) {
	if len(tags) == 0 {
		return
	}

	b.WriteString("  ")

	for i, tag := range tags {
		if i > 0 {
			b.WriteString(" ")
		}

		b.WriteString("+" + tag)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
