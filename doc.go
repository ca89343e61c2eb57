// Package axon implements the runtime value-passing layer of an inference
// engine: the currency through which typed numeric payloads move between
// computation nodes, across goroutines, and across heterogeneous compute
// devices.
//
// # Architecture Overview
//
// The module is built around two small contracts and one container:
//
//   - types: canonical, pointer-stable identity handles for payload types,
//     with capability predicates for the categorical families (tensor,
//     tensor sequence, sparse tensor)
//   - core: the Value container - a type-erased, shared-ownership box
//     carrying a payload, its identity, and an optional completion fence,
//     safe for lock-free concurrent copy and release
//   - tensor: the concrete categorical payload families
//   - runtime: the allocator boundary (arena, buffer pool) that supplies
//     payload memory and matching release callbacks, plus a reference
//     device-fence implementation
//   - featurize: fit/transform components that produce and consume Values
//
// # Ownership Model
//
// A Value's payload is shared by reference count among every copy descended
// from one Init. The payload pointer is published through an atomic cell,
// so copies and releases on different Value instances never observe a torn
// or freed payload and the bound deleter runs exactly once, on whichever
// goroutine releases last. Mutating a single shared Value instance from
// several goroutines requires external synchronization; the supported
// pattern is one Clone per goroutine.
//
// # Basic Usage
//
//	t, _ := tensor.NewDense([]int{3}, []float32{1, 2, 3})
//	v := core.NewValue(t, types.Of[tensor.Dense[float32]](), nil)
//	defer v.Release()
//
//	got, err := core.Get[tensor.Dense[float32]](v)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = got.Data()
//
// Asynchronously produced payloads carry a fence; consumers decide whether
// to wait on it before touching payload memory. The container itself never
// waits and never computes.
package axon
