// Package avl implements a height-balanced binary search tree whose element
// order depends on a caller-supplied parameter.
//
// The crossing sweep keeps the active edges ordered by their x coordinate at
// the current sweep height. That order changes as the sweep advances, so the
// tree never caches keys: every comparison asks an [Order] strategy with the
// parameter of the current operation. Elements whose relative order changes
// between two parameters must be removed and reinserted by the caller.
//
// All traversals are iterative and keep the visited path on an explicit
// stack, so tree depth is bounded only by memory.
//
// # Usage
//
//	type byValue struct{}
//
//	func (byValue) Less(a, b float64, _ float64) bool { return a < b }
//	func (byValue) Equal(a, b float64) bool           { return a == b }
//	func (byValue) Key(a float64, _ float64) float64  { return a }
//
//	t := avl.New[float64](byValue{}, geom.DefaultTolerance)
//	t.Insert(3, 0)
//	t.Insert(1, 0)
//	v, _ := t.Pop() // 1
package avl
