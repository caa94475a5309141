package tracelog

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

const (
	dateLayout = "01-02-2006"
	timeLayout = "15:04:05.000"
)

// Lines holds both serializations of one entry.
type Lines struct {
	TraceTool string
	Legacy    string
}

// Select returns the line persisted for f.
func (l Lines) Select(f Format) string {
	if f == FormatLegacy {
		return l.Legacy
	}
	return l.TraceTool
}

// Render builds both formats so switching format needs no recomputation.
func Render(e Entry) Lines {
	return Lines{
		TraceTool: RenderTraceTool(e),
		Legacy:    RenderLegacy(e),
	}
}

// RenderTraceTool renders e as
//
//	<![LOG[msg]LOG]!><time="HH:MM:SS.mmm+ZZZ" date="MM-DD-YYYY" component="src" context="user" type="1" thread="pid" file="script">
//
// Attribute order is fixed; viewers parse it positionally.
func RenderTraceTool(e Entry) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("<![LOG[")
	buf.WriteString(e.Text)
	buf.WriteString(`]LOG]!><time="`)
	buf.WriteString(e.Time.Format(timeLayout))
	buf.WriteString(zoneBias(e))
	buf.WriteString(`" date="`)
	buf.WriteString(e.Time.Format(dateLayout))
	buf.WriteString(`" component="`)
	buf.WriteString(e.Source)
	buf.WriteString(`" context="`)
	buf.WriteString(e.Principal)
	buf.WriteString(`" type="`)
	buf.WriteString(strconv.Itoa(int(e.Severity)))
	buf.WriteString(`" thread="`)
	buf.WriteString(strconv.Itoa(e.ThreadID))
	buf.WriteString(`" file="`)
	buf.WriteString(e.ScriptFile)
	buf.WriteString(`">`)

	return buf.String()
}

// RenderLegacy renders e as
//
//	[MM-DD-YYYY HH:MM:SS.mmm] [section] [source] [Info] :: msg
//
// The section and source segments are dropped, together with the space
// that precedes them, when empty.
func RenderLegacy(e Entry) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteByte('[')
	buf.WriteString(e.Time.Format(dateLayout))
	buf.WriteByte(' ')
	buf.WriteString(e.Time.Format(timeLayout))
	buf.WriteByte(']')
	if e.Section != "" {
		buf.WriteString(" [")
		buf.WriteString(e.Section)
		buf.WriteByte(']')
	}
	if e.Source != "" {
		buf.WriteString(" [")
		buf.WriteString(e.Source)
		buf.WriteByte(']')
	}
	buf.WriteString(" [")
	buf.WriteString(e.Severity.String())
	buf.WriteString("] :: ")
	buf.WriteString(e.Text)

	return buf.String()
}

// zoneBias is the signed UTC offset of the entry time in minutes, padded
// to three digits: +060, -300, +000.
func zoneBias(e Entry) string {
	_, offset := e.Time.Zone()
	minutes := offset / 60

	sign := byte('+')
	if minutes < 0 {
		sign = '-'
		minutes = -minutes
	}

	digits := strconv.Itoa(minutes)
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return string(sign) + digits
}
