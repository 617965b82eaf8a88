package luaplug

import (
	"errors"
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestStateCall(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function add(a, b) return a + b end`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if !s.HasFunction("add") {
		t.Error("HasFunction(add) = false")
	}

	results, err := s.Call("add", lua.LNumber(2), lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(results) != 1 || results[0] != lua.LNumber(5) {
		t.Errorf("Call(add, 2, 3) = %v, want [5]", results)
	}
}

func TestStateCallMissingFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	if _, err := s.Call("nope"); err == nil {
		t.Error("Call() error = nil for missing function")
	}
}

func TestStateCallNotAFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`thing = 42`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Call("thing"); err == nil {
		t.Error("Call() error = nil for non-function global")
	}
}

func TestStateLuaError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function boom() error("lua failure") end`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Call("boom"); err == nil {
		t.Error("Call() error = nil for raising function")
	}
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	s.Close()

	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close error = %v, want ErrStateClosed", err)
	}
	if _, err := s.Call("x"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() after Close error = %v, want ErrStateClosed", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStateUnsafeLibrariesClosed(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, lib := range []string{"io", "os"} {
		if s.GetGlobal(lib) != lua.LNil {
			t.Errorf("library %q is open, want closed", lib)
		}
	}
	for _, lib := range []string{"string", "table", "math"} {
		if s.GetGlobal(lib) == lua.LNil {
			t.Errorf("library %q is closed, want open", lib)
		}
	}
}

func TestBridgeRoundTrip(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	in := map[string]any{
		"title":    "Project Charter",
		"sections": []any{"Purpose", "Scope"},
		"depth":    int64(2),
		"draft":    true,
	}
	got := b.ToGo(b.ToLua(in))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %#v, want %#v", got, in)
	}
}

func TestBridgeNumbers(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	if got := b.ToGo(lua.LNumber(3)); got != int64(3) {
		t.Errorf("ToGo(3) = %v (%T), want int64", got, got)
	}
	if got := b.ToGo(lua.LNumber(3.5)); got != 3.5 {
		t.Errorf("ToGo(3.5) = %v, want float64", got)
	}
}

func TestBridgeArrayTable(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	if err := s.DoString(`arr = {"a", "b", "c"}`); err != nil {
		t.Fatal(err)
	}
	got := b.ToGo(s.GetGlobal("arr"))
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToGo(arr) = %#v, want %#v", got, want)
	}
}

func TestBridgeUnsupportedGoValue(t *testing.T) {
	s := NewState()
	defer s.Close()
	b := NewBridge(s.L)

	if got := b.ToLua(struct{}{}); got != lua.LNil {
		t.Errorf("ToLua(struct{}{}) = %v, want nil", got)
	}
}
