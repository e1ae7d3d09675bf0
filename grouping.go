package hl7

import "github.com/jacoelho/hl7/reference"

// searchFrame is one open nesting level during structure assignment:
// the node new children attach to, the structure its slots come from,
// and the index of the last slot matched at this level.
type searchFrame struct {
	parent    *Element
	structure *reference.Structure
	last      int
}

// assignStructure attaches each decoded segment, in input order, either
// to the message or to the (possibly newly created) group the root
// structure mandates. Segments no level can place attach flat to the
// message.
//
// The frame stack persists across segments: groups opened for an earlier
// segment stay open until a later segment forces them closed, either by
// failing to match inside them or by re-matching a non-repeatable slot.
func assignStructure(ctx decodeContext, msg *Element, root *reference.Structure, segments []*Element) {
	frames := []searchFrame{{parent: msg, structure: root, last: -1}}
	for _, seg := range segments {
		var placed bool
		for len(frames) > 0 {
			if frames, placed = place(ctx, frames, seg); placed || len(frames) == 0 {
				break
			}
			frames = frames[:len(frames)-1]
		}
		if !placed {
			msg.Append(seg)
		}
	}
}

// place tries to attach the segment at the innermost frame. It returns
// the updated frame stack: deeper when a speculative group was kept,
// shallower when a non-repeatable re-match closed group instances.
func place(ctx decodeContext, frames []searchFrame, seg *Element) ([]searchFrame, bool) {
	depth := len(frames)
	frame := &frames[depth-1]

	if slot, idx, ok := frame.structure.Slot(seg.Name); ok {
		if idx <= frame.last && slot.Max == 1 {
			// this container already consumed its single allowed
			// instance of the slot: the segment starts a new repetition
			// of the enclosing group, one level up
			if depth == 1 {
				return frames[:0], false
			}
			return place(ctx, frames[:depth-1], seg)
		}
		frame.last = idx
		frame.parent.Append(seg)
		return frames, true
	}

	// Not a direct child here: try every group slot in declared order,
	// speculatively descending into each. A group node is attached only
	// once some descendant frame accepts the segment; a failed candidate
	// is discarded together with its frame.
	for i, slot := range frame.structure.Slots {
		if slot.Kind != reference.Group {
			continue
		}
		st, err := ctx.provider.Structure(slot.Name, ctx.version)
		if err != nil {
			continue
		}
		group := &Element{Kind: KindGroup, Name: slot.Name, Version: ctx.version}
		next, ok := place(ctx, append(frames, searchFrame{parent: group, structure: st, last: -1}), seg)
		if ok {
			next[depth-1].parent.Append(group)
			next[depth-1].last = i
			return next, true
		}
	}
	return frames, false
}
