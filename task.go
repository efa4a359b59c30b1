package taskdebounce

import (
	"fmt"
	"reflect"
)

// taskKey is the comparable identity of a debounced task. Exactly one
// field is set: string identities key on the member name, function
// identities key on the function's code pointer. The two forms never
// compare equal, even if the name refers to the same function.
type taskKey struct {
	name string
	fn   uintptr
}

// identityKey derives the taskKey for a task without validating it
// against an owner. Used by Cancel, where an unresolvable task simply
// means nothing is pending.
func identityKey(task any) (taskKey, bool) {
	if name, ok := task.(string); ok {
		if name == "" {
			return taskKey{}, false
		}

		return taskKey{name: name}, true
	}

	v := reflect.ValueOf(task)
	if v.Kind() != reflect.Func || v.IsNil() {
		return taskKey{}, false
	}

	return taskKey{fn: v.Pointer()}, true
}

// resolveTask validates task against owner and returns its identity key
// together with the invocation closure the scheduler will eventually
// run.
//
// Named tasks are resolved again inside the closure, when the timer
// actually fires, so they always see the owner's current member. Function
// tasks capture the function value as given.
func resolveTask(
	owner, task any,
) (taskKey, func(args ...any), error) {
	if name, ok := task.(string); ok {
		if name == "" {
			return taskKey{}, nil, fmt.Errorf(
				"%w: task name must not be empty", ErrInvalidArgument,
			)
		}
		if fn, ok := member(owner, name); !ok || fn.IsNil() {
			return taskKey{}, nil, fmt.Errorf(
				"%w: %T has no callable member %q",
				ErrInvalidArgument, owner, name,
			)
		}

		invoke := func(args ...any) {
			if fn, ok := member(owner, name); ok {
				call(fn, args)
			}
		}

		return taskKey{name: name}, invoke, nil
	}

	v := reflect.ValueOf(task)
	if v.Kind() != reflect.Func || v.IsNil() {
		return taskKey{}, nil, fmt.Errorf(
			"%w: task must be a member name or a non-nil func, got %T",
			ErrInvalidArgument, task,
		)
	}

	invoke := func(args ...any) {
		call(v, args)
	}

	return taskKey{fn: v.Pointer()}, invoke, nil
}

// member resolves name on owner to something callable: an exported
// method, or failing that an exported func-typed struct field. Methods
// are preferred as they cannot be shadowed by fields of the same name.
func member(owner any, name string) (reflect.Value, bool) {
	v := reflect.ValueOf(owner)
	if m := v.MethodByName(name); m.IsValid() {
		return m, true
	}

	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		f := v.FieldByName(name)
		if f.IsValid() && f.Kind() == reflect.Func && f.CanInterface() {
			return f, true
		}
	}

	return reflect.Value{}, false
}

// call invokes fn with args. Untyped nil args become the zero value of
// the corresponding parameter. Mismatched arguments panic, just as a
// direct call with the wrong signature would not compile.
func call(fn reflect.Value, args []any) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(paramType(fn.Type(), i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}

	fn.Call(in)
}

func paramType(t reflect.Type, i int) reflect.Type {
	if t.IsVariadic() && i >= t.NumIn()-1 {
		return t.In(t.NumIn() - 1).Elem()
	}

	return t.In(i)
}
