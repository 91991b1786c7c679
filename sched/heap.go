package sched

import "container/heap"

// slotHeap implements heap.Interface over arena slots ordered by less.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type slotHeap struct {
	jobs  []Job
	slots []int
	less  lessFunc
}

func newSlotHeap(jobs []Job, less lessFunc) *slotHeap {
	return &slotHeap{jobs: jobs, less: less}
}

func (h *slotHeap) Len() int { return len(h.slots) }
func (h *slotHeap) Less(i, j int) bool {
	return h.less(&h.jobs[h.slots[i]], &h.jobs[h.slots[j]])
}
func (h *slotHeap) Swap(i, j int) { h.slots[i], h.slots[j] = h.slots[j], h.slots[i] }

func (h *slotHeap) Push(x any) {
	h.slots = append(h.slots, x.(int))
}

func (h *slotHeap) Pop() any {
	old := h.slots
	n := len(old)
	item := old[n-1]
	h.slots = old[0 : n-1]
	return item
}

// push adds a slot.
func (h *slotHeap) push(slot int) {
	heap.Push(h, slot)
}

// pop removes and returns the minimum slot, or -1 when empty.
func (h *slotHeap) pop() int {
	if h.Len() == 0 {
		return -1
	}
	return heap.Pop(h).(int)
}

// peek returns the minimum slot without removing it, or -1 when empty.
func (h *slotHeap) peek() int {
	if h.Len() == 0 {
		return -1
	}
	return h.slots[0]
}
