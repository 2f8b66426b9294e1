package codegen

import "fmt"

// loadVar reads a binding's current numeric value (spec §4.C.1): the
// fast path is a plain `load double`; the geometric path goes through
// eigen_T_value so every read sees the tracked scalar's latest
// update, not a stale pointer copy.
//
// Fast-path bindings are read through a slot (a local alloca or a
// module global) holding the double itself, local or global alike.
// Geometric bindings differ by scope (spec §4.C.1/§4.C.2): a local
// tracked scalar's slot directly IS its %struct.T (an `alloca
// %struct.T`, so b.Reg is already a %struct.T*), while a module
// global's slot holds a heap %struct.T* that must be loaded first —
// loadGeometricPtr is the one place that distinction lives.
func (g *gen) loadVar(b *Binding) Value {
	if b.handleType != "" {
		tmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = load %s, %s* %s", tmp, b.handleType, b.handleType, b.Reg))
		return Value{Ref: tmp, Type: b.handleType}
	}
	if !b.Observed {
		tmp := g.newTemp()
		g.emit(fmt.Sprintf("%s = load double, double* %s", tmp, b.Reg))
		return Value{Ref: tmp, Type: tyDouble}
	}
	ptr := g.loadGeometricPtr(b)
	tmp := g.newTemp()
	g.use("eigen_T_value")
	g.emit(fmt.Sprintf("%s = call double @eigen_T_value(%%struct.T* %s)", tmp, ptr))
	return Value{Ref: tmp, Type: tyDouble}
}

// loadGeometricPtr returns a %struct.T* usable by any eigen_T_* call.
// A local's slot is its own `alloca %struct.T`, so b.Reg already IS
// that pointer. A module global's slot is a `%struct.T*` global
// variable (the pointer lives on the heap, created once by
// eigen_T_create), so it has to be loaded first.
func (g *gen) loadGeometricPtr(b *Binding) string {
	if !b.IsGlobal {
		return b.Reg
	}
	tmp := g.newTemp()
	g.emit(fmt.Sprintf("%s = load %%struct.T*, %%struct.T** %s", tmp, b.Reg))
	return tmp
}

// storeVar writes val into b (spec §4.R.1): the binding's first
// assignment allocates the underlying entity, and every later
// assignment updates it in place so history/gradient/stability keep
// accumulating instead of resetting.
//
// Allocation differs by scope for geometric bindings (spec
// §4.C.1/§4.C.2): a function-local tracked scalar gets a stack
// `alloca %struct.T` field-initialized in place by eigen_T_init, so it
// never touches the allocator and is reclaimed for free when the
// frame ends. A module-level global is heap-allocated once by
// eigen_T_create (it must outlive any single frame) and the resulting
// pointer is stored into the global's `%struct.T*` slot.
//
// Known limitation (see DESIGN.md): the first-vs-later distinction is
// tracked at lowering time in source order. A variable whose first
// assignment is conditional (inside only one arm of an if) and is
// reassigned unconditionally afterward is lowered as if the first
// assignment always ran; this matches every other direct-to-IR
// generator in the teacher lineage, none of which do definite-
// assignment analysis either.
func (g *gen) storeVar(b *Binding, val Value) {
	if !b.Observed {
		if !b.Created {
			// A module global is already defined by globalDefLine.
			if !b.IsGlobal {
				g.emit(fmt.Sprintf("%s = alloca double", b.Reg))
			}
			b.Created = true
		}
		g.emit(fmt.Sprintf("store double %s, double* %s", val.Ref, b.Reg))
		return
	}

	if !b.Created {
		if b.IsGlobal {
			ptr := g.newTemp()
			g.use("eigen_T_create")
			g.emit(fmt.Sprintf("%s = call %%struct.T* @eigen_T_create(double %s)", ptr, val.Ref))
			g.emit(fmt.Sprintf("store %%struct.T* %s, %%struct.T** %s", ptr, b.Reg))
		} else {
			g.emit(fmt.Sprintf("%s = alloca %%struct.T", b.Reg))
			g.use("eigen_T_init")
			g.emit(fmt.Sprintf("call void @eigen_T_init(%%struct.T* %s, double %s)", b.Reg, val.Ref))
		}
		b.Created = true
		return
	}

	ptr := g.loadGeometricPtr(b)
	g.use("eigen_T_update")
	g.emit(fmt.Sprintf("call void @eigen_T_update(%%struct.T* %s, double %s)", ptr, val.Ref))
}
