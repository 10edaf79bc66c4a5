package render

import (
	"fmt"
	"sort"

	"github.com/rowan-editor/rowan/internal/registry"
)

// EvaluateStatusline runs every registered statusline segment in
// priority order (highest first, ties by id) against caps, skipping
// segments that render to the empty string. Segments that need a
// capability the current focus doesn't provide (e.g. a terminal leaf
// has no cursor) must nil-check and return "".
func EvaluateStatusline(caps registry.Capabilities) []string {
	segs := append([]*registry.StatuslineSegment(nil), registry.StatuslineSegments.All()...)
	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].Priority != segs[j].Priority {
			return segs[i].Priority > segs[j].Priority
		}
		return segs[i].ID < segs[j].ID
	})
	var out []string
	for _, seg := range segs {
		if seg.Render == nil {
			continue
		}
		if s := seg.Render(caps); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	registry.RegisterStatuslineSegment(&registry.StatuslineSegment{
		ID: "statusline.mode", Name: "mode", Priority: 100,
		Render: func(caps registry.Capabilities) string {
			if caps.Mode == nil {
				return ""
			}
			return caps.Mode.Mode()
		},
	})
	registry.RegisterStatuslineSegment(&registry.StatuslineSegment{
		ID: "statusline.position", Name: "position", Priority: 50,
		Render: func(caps registry.Capabilities) string {
			if caps.Cursor == nil || caps.Text == nil {
				return ""
			}
			row, col := caps.Text.RowCol(caps.Cursor.Cursor())
			return fmt.Sprintf("%d:%d", row+1, col+1)
		},
	})
	registry.RegisterStatuslineSegment(&registry.StatuslineSegment{
		ID: "statusline.selections", Name: "selections", Priority: 40,
		Render: func(caps registry.Capabilities) string {
			if caps.Selection == nil {
				return ""
			}
			n := len(caps.Selection.Selection().Ranges())
			if n <= 1 {
				return ""
			}
			return fmt.Sprintf("%d sels", n)
		},
	})
}
