package core

// Fence is an opaque completion signal a payload producer may attach to a
// Value whose contents are still being produced asynchronously, e.g. by a
// device kernel. The container only attaches, retrieves and propagates the
// handle; wait and poll semantics belong to the execution provider that
// created the fence, and no operation in this package ever blocks on one.
//
// Fences are shared by reference: copies of a Value, and containers linked
// with ShareFenceWith, observe the same underlying signal.
type Fence interface{}
