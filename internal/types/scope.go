package types

import (
	"fmt"

	"github.com/PQNebel/nebulang/internal/ast"
)

// ClosureState tracks how far a registered function has progressed through
// checking. The middle state exists so re-entrant triggering from forward
// references and mutual recursion terminates: it is set before the checker
// recurses into a body that might call back into the same function.
type ClosureState int

const (
	ClosureUnchecked ClosureState = iota
	ClosureChecking
	ClosureChecked
)

// Closure pairs a declared function with the lexical context captured at its
// registration. It lives in the scope environment, never in the AST.
type Closure struct {
	Fun       *ast.Function
	State     ClosureState
	Env       *Environment // snapshot as of registration, extended with siblings
	DeclScope int          // id of the frame the function was declared in
}

// frame is one lexical scope, tracking variable and function bindings
// independently.
type frame struct {
	id   int
	vars map[string]ast.Type
	funs map[string]*Closure
}

func newFrame(id int) *frame {
	return &frame{
		id:   id,
		vars: make(map[string]ast.Type),
		funs: make(map[string]*Closure),
	}
}

// clone copies the binding tables. Closure records stay shared so the checked
// state is visible through every snapshot; variable tables are copied so a
// snapshot never aliases a live frame.
func (f *frame) clone() *frame {
	vars := make(map[string]ast.Type, len(f.vars))
	for name, typ := range f.vars {
		vars[name] = typ
	}
	funs := make(map[string]*Closure, len(f.funs))
	for name, clo := range f.funs {
		funs[name] = clo
	}
	return &frame{id: f.id, vars: vars, funs: funs}
}

// Environment is the stack of lexical scope frames threaded through checking,
// consulted innermost frame first.
type Environment struct {
	frames []*frame
	nextID int
}

// NewEnvironment returns a fresh, empty environment. The root block's check
// pushes the first frame.
func NewEnvironment() *Environment {
	return &Environment{}
}

// EnterScope pushes a frame; it brackets exactly one block or function body.
func (e *Environment) EnterScope() {
	e.frames = append(e.frames, newFrame(e.nextID))
	e.nextID++
}

// LeaveScope pops the innermost frame.
func (e *Environment) LeaveScope() {
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *Environment) current() *frame {
	return e.frames[len(e.frames)-1]
}

// Clone copies the whole frame stack (see frame.clone for the sharing rules).
func (e *Environment) Clone() *Environment {
	frames := make([]*frame, len(e.frames))
	for i, f := range e.frames {
		frames[i] = f.clone()
	}
	return &Environment{frames: frames, nextID: e.nextID}
}

// VarExistsInScope reports whether name is bound in the innermost frame only.
// Shadowing an outer frame's binding is allowed and not reported here.
func (e *Environment) VarExistsInScope(name string) bool {
	_, ok := e.current().vars[name]
	return ok
}

// FunExistsInScope reports whether a function of that name is registered in
// the innermost frame only.
func (e *Environment) FunExistsInScope(name string) bool {
	_, ok := e.current().funs[name]
	return ok
}

// PushVariable binds name in the current frame. Same-scope redeclaration must
// already have been rejected by the caller.
func (e *Environment) PushVariable(name string, typ ast.Type) {
	e.current().vars[name] = typ
}

// PushFunction registers an unchecked closure in the current frame. The
// snapshot is captured after insertion, so a function always sees itself and
// any siblings registered before it; LinkSiblingFunctions supplies the rest.
func (e *Environment) PushFunction(name string, fun *ast.Function) *Closure {
	clo := &Closure{
		Fun:       fun,
		State:     ClosureUnchecked,
		DeclScope: e.current().id,
	}
	e.current().funs[name] = clo
	clo.Env = e.Clone()
	return clo
}

// LinkSiblingFunctions extends every closure registered in the current frame
// with all of its same-block siblings. Two functions declared in one block
// can call each other regardless of textual order only because of this step.
func (e *Environment) LinkSiblingFunctions() {
	cur := e.current()
	for _, clo := range cur.funs {
		snap := clo.Env.frames[len(clo.Env.frames)-1]
		for name, sibling := range cur.funs {
			snap.funs[name] = sibling
		}
	}
}

// LookupVar resolves a variable's type, innermost frame outward.
func (e *Environment) LookupVar(name string) (ast.Type, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if typ, ok := e.frames[i].vars[name]; ok {
			return typ, true
		}
	}
	return "", false
}

// LookupFun resolves a function's closure, innermost frame outward.
func (e *Environment) LookupFun(name string) (*Closure, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if clo, ok := e.frames[i].funs[name]; ok {
			return clo, true
		}
	}
	return nil, false
}

// ScopeAt reconstructs the environment as it existed at the given scope
// level: the live stack truncated at that frame, copied. It re-establishes
// the correct lexical context when a function body is checked lazily from a
// call site elsewhere in the program.
func (e *Environment) ScopeAt(scopeID int) *Environment {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].id != scopeID {
			continue
		}
		frames := make([]*frame, i+1)
		for j := 0; j <= i; j++ {
			frames[j] = e.frames[j].clone()
		}
		return &Environment{frames: frames, nextID: e.nextID}
	}
	panic(fmt.Sprintf("types: scope %d is not on the stack", scopeID))
}
