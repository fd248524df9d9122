package machine

import "github.com/xnacly/purple-garden/lang/compiler"

// FreeList preallocates compiler.FrameFreeListSize Frames up front and
// recycles them across calls instead of letting every CALL/LEAVE pair
// allocate and drop one, mirroring the fixed-capacity frame pool vm.c
// keeps. Once the pool is exhausted, pop falls back to a plain
// heap-allocated Frame rather than failing the call outright: Go's
// garbage collector reclaims it normally once it's popped off the call
// chain, unlike the original's fixed-capacity pool which simply refuses
// calls past its limit.
type FreeList struct {
	frames []*Frame
}

func newFreeList() *FreeList {
	fl := &FreeList{frames: make([]*Frame, 0, compiler.FrameFreeListSize)}
	for i := 0; i < compiler.FrameFreeListSize; i++ {
		fl.frames = append(fl.frames, &Frame{})
	}
	return fl
}

// pop returns a zeroed Frame ready to be pushed onto the call chain.
func (fl *FreeList) pop() *Frame {
	if n := len(fl.frames); n > 0 {
		fr := fl.frames[n-1]
		fl.frames = fl.frames[:n-1]
		fr.reset()
		return fr
	}
	return &Frame{}
}

// push returns fr to the pool for reuse, clearing it immediately rather
// than waiting for the next pop so that a reused Frame never observes a
// dangling reference to the value it used to hold.
func (fl *FreeList) push(fr *Frame) {
	fr.reset()
	if len(fl.frames) < compiler.FrameFreeListSize {
		fl.frames = append(fl.frames, fr)
	}
}
