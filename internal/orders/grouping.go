package orders

import (
	"sort"
)

// UnassignedGroupLabel names the bucket for orders handled directly
// at the counter without a designer.
const UnassignedGroupLabel = "Unassigned/Counter"

// DesignerGroup is one node of the designer -> orders tree shown on
// the workload screen.
type DesignerGroup struct {
	DesignerID   *int64  `json:"designer_id,omitempty"`
	DesignerName string  `json:"designer_name"`
	TotalAmount  float64 `json:"total_amount"`
	Orders       []Order `json:"orders"`
}

// NameResolver maps a designer id to a display name. Unknown ids fall
// back to the unassigned label so a stale reference never hides an
// order from the board.
type NameResolver func(designerID int64) (string, bool)

// GroupByDesigner partitions orders into a two-level tree keyed by
// resolved designer name. Groups are sorted by name with the
// unassigned bucket last; each aggregate total is the sum of child
// order totals.
func GroupByDesigner(list []Order, resolve NameResolver) []DesignerGroup {
	byKey := make(map[string]*DesignerGroup)
	var keys []string
	for _, o := range list {
		name := UnassignedGroupLabel
		var id *int64
		if o.DesignerID != nil {
			if resolved, ok := resolve(*o.DesignerID); ok {
				name = resolved
				v := *o.DesignerID
				id = &v
			}
		}
		g, ok := byKey[name]
		if !ok {
			g = &DesignerGroup{DesignerID: id, DesignerName: name}
			byKey[name] = g
			keys = append(keys, name)
		}
		g.Orders = append(g.Orders, o)
		g.TotalAmount = round2(g.TotalAmount + o.TotalAmount)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == UnassignedGroupLabel {
			return false
		}
		if keys[j] == UnassignedGroupLabel {
			return true
		}
		return keys[i] < keys[j]
	})

	out := make([]DesignerGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}

// SortForDesignerQueue orders the design queue: rejected designs
// first (corrections jump the line), then FIFO by delivery date or
// creation date. The sort is stable so ties keep their original
// order.
func SortForDesignerQueue(list []Order) []Order {
	out := append([]Order(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Status == StatusDesignRejected, out[j].Status == StatusDesignRejected
		if ri != rj {
			return ri
		}
		return out[i].QueueDate().Before(out[j].QueueDate())
	})
	return out
}

// StatusStyle is the icon/color pair a status renders with. Pure
// lookup, no business logic.
type StatusStyle struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var statusStyles = map[Status]StatusStyle{
	StatusQuoted:                  {Icon: "file-text", Color: "gray"},
	StatusPaid:                    {Icon: "credit-card", Color: "blue"},
	StatusInDesignWithSupplies:    {Icon: "package-check", Color: "teal"},
	StatusInDesignWithoutSupplies: {Icon: "package-x", Color: "orange"},
	StatusDesignInProgress:        {Icon: "pen-tool", Color: "indigo"},
	StatusDesignUnderClientReview: {Icon: "eye", Color: "violet"},
	StatusDesignApproved:          {Icon: "thumbs-up", Color: "green"},
	StatusDesignRejected:          {Icon: "thumbs-down", Color: "red"},
	StatusInPrinting:              {Icon: "printer", Color: "cyan"},
	StatusReadyForDelivery:        {Icon: "box", Color: "lime"},
	StatusDelivered:               {Icon: "check-circle", Color: "green"},
	StatusCancelled:               {Icon: "x-circle", Color: "red"},
}

// StyleFor returns the display style for a status.
func StyleFor(s Status) StatusStyle {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return StatusStyle{Icon: "help-circle", Color: "gray"}
}
