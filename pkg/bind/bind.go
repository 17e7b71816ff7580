// Package bind maps plugin function signatures onto slices of the
// calculator stack.
//
// An operation author writes a plain Go function; Wrap inspects its
// signature once, at registration time, and derives how many stack items it
// consumes and in what representation each parameter wants them:
//
//   - A parameter of type *apd.Decimal receives an item's exact numeric
//     value. This is what most operations want.
//   - A string parameter receives the item's display string, exactly what
//     is shown in the calculator window.
//   - A *stack.Item parameter receives the whole item.
//   - A variadic parameter of any of those types receives the entire
//     argument slice. It cannot be combined with positional stack
//     parameters.
//   - A *register.Registry parameter receives the live registry.
//   - A Testing parameter receives true when the operation is running
//     under the startup self-test harness.
//
// Positional parameters bind to the trailing slice of the stack in
// declaration order: the first declared parameter gets the deepest item, so
// a two-parameter function reads naturally as f(sos, bos).
//
// The function's last return value must be error. Any values before it are
// coerced to exact decimals; returning something non-coercible is a
// programming error in the plugin, not a user error.
package bind

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

// Testing is the parameter type that receives the self-test flag.
type Testing bool

// itemKind says which representation of a stack item a parameter binds to.
type itemKind int

const (
	kindDecimal itemKind = iota
	kindString
	kindItem
)

// param describes one parameter of a wrapped function.
type param struct {
	registry bool
	testing  bool
	kind     itemKind // valid if neither registry nor testing
}

var (
	decimalType  = reflect.TypeOf((*apd.Decimal)(nil))
	stringType   = reflect.TypeOf("")
	itemType     = reflect.TypeOf((*stack.Item)(nil))
	registryType = reflect.TypeOf((*register.Registry)(nil))
	testingType  = reflect.TypeOf(Testing(false))
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

// Func is a plugin function wrapped for execution against stack slices.
type Func struct {
	name string
	impl reflect.Value

	params   []param
	numStack int
	variadic bool
	varKind  itemKind
}

// Wrap inspects impl and returns it wrapped for dispatch. A malformed
// signature is reported as an error; registration helpers turn that into a
// startup failure.
func Wrap(name string, impl interface{}) (*Func, error) {
	t := reflect.TypeOf(impl)
	if t == nil || t.Kind() != reflect.Func {
		return nil, errs.Programming{Msg: fmt.Sprintf("operation '%s' is not bound to a function", name)}
	}

	f := &Func{name: name, impl: reflect.ValueOf(impl)}
	for i := 0; i < t.NumIn(); i++ {
		pt := t.In(i)
		if t.IsVariadic() && i == t.NumIn()-1 {
			kind, ok := stackKind(pt.Elem())
			if !ok {
				return nil, f.badSignature("has a variadic parameter that does not take stack items")
			}
			f.variadic = true
			f.varKind = kind
			continue
		}
		switch pt {
		case registryType:
			f.params = append(f.params, param{registry: true})
		case testingType:
			f.params = append(f.params, param{testing: true})
		default:
			kind, ok := stackKind(pt)
			if !ok {
				return nil, f.badSignature(fmt.Sprintf("has a parameter of unsupported type %s", pt))
			}
			f.params = append(f.params, param{kind: kind})
			f.numStack++
		}
	}
	if f.variadic && f.numStack > 0 {
		return nil, f.badSignature("mixes a variadic stack parameter with positional stack parameters")
	}

	switch t.NumOut() {
	case 1, 2:
		if t.Out(t.NumOut()-1) != errorType {
			return nil, f.badSignature("does not return an error as its last return value")
		}
	default:
		return nil, f.badSignature("must return either error or (results, error)")
	}
	return f, nil
}

func stackKind(t reflect.Type) (itemKind, bool) {
	switch t {
	case decimalType:
		return kindDecimal, true
	case stringType:
		return kindString, true
	case itemType:
		return kindItem, true
	}
	return 0, false
}

func (f *Func) badSignature(problem string) error {
	return errs.Programming{Msg: fmt.Sprintf("the function bound to operation '%s' %s", f.name, problem)}
}

// Name returns the name the function was wrapped under.
func (f *Func) Name() string { return f.name }

// Pop returns how many items the function consumes from the stack: the
// number of its positional stack parameters, or -1 if it takes the entire
// stack through a variadic parameter.
func (f *Func) Pop() int {
	if f.variadic {
		return -1
	}
	return f.numStack
}

// Call invokes the wrapped function against args, which must already have
// been sliced off the stack (deepest first). It returns the coerced result
// values to push, or nil if the function produced none.
func (f *Func) Call(args []*stack.Item, reg *register.Registry, testing bool) ([]*apd.Decimal, error) {
	if !f.variadic && len(args) != f.numStack {
		return nil, errs.Programming{Msg: fmt.Sprintf(
			"operation '%s' was dispatched %d arguments, needs %d", f.name, len(args), f.numStack)}
	}

	in := make([]reflect.Value, 0, len(f.params)+len(args))
	next := 0
	for _, p := range f.params {
		switch {
		case p.registry:
			in = append(in, reflect.ValueOf(reg))
		case p.testing:
			in = append(in, reflect.ValueOf(Testing(testing)))
		default:
			in = append(in, bindItem(args[next], p.kind))
			next++
		}
	}
	if f.variadic {
		for _, it := range args {
			in = append(in, bindItem(it, f.varKind))
		}
	}

	out := f.impl.Call(in)
	if errv := out[len(out)-1]; !errv.IsNil() {
		return nil, errv.Interface().(error)
	}
	if len(out) == 1 {
		return nil, nil
	}
	return f.coerceResults(out[0])
}

// bindItem converts a stack item to the representation a parameter wants.
// Numeric values are copied so a plugin cannot mutate the stack through
// them.
func bindItem(it *stack.Item, kind itemKind) reflect.Value {
	switch kind {
	case kindString:
		return reflect.ValueOf(it.Display())
	case kindItem:
		return reflect.ValueOf(it)
	default:
		return reflect.ValueOf(new(apd.Decimal).Set(it.Decimal()))
	}
}

// coerceResults flattens and coerces a function's result value into the
// decimals to push. A nil result means nothing is pushed.
func (f *Func) coerceResults(v reflect.Value) ([]*apd.Decimal, error) {
	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr || v.Kind() == reflect.Slice {
		if v.IsNil() {
			return nil, nil
		}
	}
	var raw []interface{}
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			raw = append(raw, v.Index(i).Interface())
		}
	} else {
		raw = []interface{}{v.Interface()}
	}

	results, err := CoerceSlice(raw)
	if err != nil {
		return nil, errs.Programming{
			Msg: fmt.Sprintf(
				"the function bound to operation '%s' returned a value that cannot be converted to a decimal", f.name),
			Cause: err,
		}
	}
	return results, nil
}

// Coerce converts a raw value to an exact decimal. Strings, the integer
// types, float64 and decimals themselves work; anything else is an error.
// Floats convert exactly, with all the binary-representation digits that
// implies; canonical display rounding happens later, at the stack.
func Coerce(v interface{}) (*apd.Decimal, error) {
	switch v := v.(type) {
	case *apd.Decimal:
		return new(apd.Decimal).Set(v), nil
	case apd.Decimal:
		return new(apd.Decimal).Set(&v), nil
	case int:
		return apd.New(int64(v), 0), nil
	case int64:
		return apd.New(v, 0), nil
	case string:
		d, _, err := apd.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to a decimal", v)
		}
		return d, nil
	case float64:
		d, err := new(apd.Decimal).SetFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %v to a decimal", v)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("conversion from %T to a decimal is not supported", v)
	}
}

// CoerceSlice converts a slice of raw values with Coerce.
func CoerceSlice(vs []interface{}) ([]*apd.Decimal, error) {
	ds := make([]*apd.Decimal, len(vs))
	for i, v := range vs {
		d, err := Coerce(v)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
