package ecs

import (
	"iter"
	"reflect"
	"strings"
	"unsafe"
)

// View represents a query for entities with a specific combination of components.
// The type T should be a struct with embedded pointer fields for each component type.
// Named fields can be marked with the `ecs:"optional"` and `ecs:"mut"` struct tags;
// embedded fields are always required. Fields are read-only unless tagged mut.
// A field of type EntityId receives the id of the matched entity.
type View[T any] struct {
	store       *Store
	plan        *plan
	fieldOffset []uintptr
	fields      []int

	idOffset uintptr
	hasId    bool
}

// NewView creates a new view for the given struct type.
func NewView[T any](store *Store) *View[T] {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType == nil || structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{store: store}
	access := make([]Access, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == reflect.TypeFor[EntityId]() {
			v.idOffset = field.Offset
			v.hasId = true
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		a := Read(KindFor(fieldType.Elem()))
		for _, opt := range strings.Split(field.Tag.Get("ecs"), ",") {
			switch opt {
			case "":
			case "optional":
				// Embedded fields are always required.
				if !field.Anonymous {
					a.Optional = true
				}
			case "mut":
				a.Mut = true
			default:
				panic("invalid ecs tag value: \"" + opt + "\" (supported: \"optional\", \"mut\")")
			}
		}

		access = append(access, a)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		v.fields = append(v.fields, i)
	}

	v.plan = newPlan(access)
	return v
}

// populate copies the row's component pointers into the struct at resultPtr.
func (v *View[T]) populate(resultPtr unsafe.Pointer, row *Row) {
	if v.hasId {
		*(*EntityId)(unsafe.Add(resultPtr, v.idOffset)) = row.Id
	}

	for i, offset := range v.fieldOffset {
		fieldPtr := unsafe.Add(resultPtr, offset)

		h := row.handles[i]
		if h == nil {
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// The cell holds a *C boxed in an interface; its data word is the pointer.
		component := h.Value()
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
}

// Iter returns an iterator over all entities that have all the required components
// for this view. Component pointers are only valid inside the loop body.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		resultPtr := unsafe.Pointer(&result)

		for id, row := range v.store.Query(v.plan.access...) {
			v.populate(resultPtr, row)
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs).
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Get calls fn with the populated view struct for a single entity. It returns
// false, without calling fn, when the entity lacks a required component.
func (v *View[T]) Get(id EntityId, fn func(T)) bool {
	row, ok := v.store.Lookup(id, v.plan.access...)
	if !ok {
		return false
	}
	defer row.Release()

	var result T
	v.populate(unsafe.Pointer(&result), row)
	fn(result)
	return true
}

// Spawn creates an entity holding a copy of every non-nil component field of
// value. It panics when a required field is nil.
func (v *View[T]) Spawn(value T) (EntityId, error) {
	rv := reflect.ValueOf(&value).Elem()
	for i, field := range v.fields {
		if rv.Field(field).IsNil() && !v.plan.access[i].Optional {
			panic("required component is nil: " + v.plan.access[i].Kind.String())
		}
	}

	registry := v.store.registry
	id := registry.Create()

	for i, field := range v.fields {
		ptr := rv.Field(field)
		if ptr.IsNil() {
			continue
		}
		if err := v.store.Attach(id, v.plan.access[i].Kind, ptr.Interface()); err != nil {
			registry.Destroy(id, v.store)
			return 0, err
		}
	}
	return id, nil
}

// Kinds returns the required kinds of the view.
func (v *View[T]) Kinds() *KindSet {
	return v.plan.required.Clone()
}
