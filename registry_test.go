package endpoint

import "testing"

type typedPing struct{}

func (typedPing) TypeID() uint32 { return 42 }

func TestSimpleRegistry_RegisterCreateHasType(t *testing.T) {
	reg := NewSimpleRegistry()

	if reg.HasType(42) {
		t.Fatal("HasType true before Register")
	}

	reg.Register(42, func() Message { return &typedPing{} })

	if !reg.HasType(42) {
		t.Fatal("HasType false after Register")
	}

	msg, err := reg.Create(42)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, ok := msg.(*typedPing); !ok {
		t.Errorf("Create returned %T, want *typedPing", msg)
	}
}

func TestSimpleRegistry_CreateUnregistered(t *testing.T) {
	reg := NewSimpleRegistry()
	if _, err := reg.Create(1); err != ErrUnregisteredType {
		t.Errorf("Create(1) err = %v, want ErrUnregisteredType", err)
	}
}

func TestSimpleRegistry_RegisterIsIdempotent(t *testing.T) {
	reg := NewSimpleRegistry()
	calls := 0
	reg.Register(1, func() Message {
		calls++
		return &typedPing{}
	})
	reg.Register(1, func() Message {
		calls++
		return &typedPing{}
	})

	if !reg.HasType(1) {
		t.Fatal("HasType false after re-registering")
	}
	if _, err := reg.Create(1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if calls != 1 {
		t.Errorf("constructor called %d times, want 1", calls)
	}
}

func TestSimpleRegistry_TypeID(t *testing.T) {
	reg := NewSimpleRegistry()

	id, err := reg.TypeID(&typedPing{})
	if err != nil {
		t.Fatalf("TypeID: %v", err)
	}
	if id != 42 {
		t.Errorf("TypeID = %d, want 42", id)
	}

	if _, err := reg.TypeID("not a TypedMessage"); err != ErrUntypedMessage {
		t.Errorf("TypeID for untyped message = %v, want ErrUntypedMessage", err)
	}
}
