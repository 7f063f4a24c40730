package demoui

import "hash/fnv"

// ID identifies a widget across frames. IDs are stable as long as the same
// widgets are built in the same order.
type ID uint64

// GetID generates an ID from a label, the enclosing window and a per-frame
// call counter, so equal labels in one window still get distinct IDs.
func (ctx *Context) GetID(label string) ID {
	ctx.idCounter++

	h := fnv.New64a()
	h.Write([]byte(label))
	labelHash := h.Sum64()

	return ID(uint64(ctx.parentID)<<32 | uint64(ctx.idCounter)<<16 | labelHash&0xFFFF)
}
