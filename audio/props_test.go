package audio

import "testing"

func TestPropsValidation(t *testing.T) {
	props := NewProps()
	newStage(props)

	if err := props.Set("density", 20.0); err != nil {
		t.Error(err)
	}
	if err := props.Set("density", 500.0); err == nil {
		t.Error("expected an out-of-range error")
	}
	if err := props.Set("density", "fast"); err == nil {
		t.Error("expected a type error")
	}
	if err := props.Set("nope", 1.0); err == nil {
		t.Error("expected an unknown property error")
	}

	v, err := props.Get("density")
	if err != nil {
		t.Fatal(err)
	}
	if want := 20.0; v != want {
		t.Errorf("get density: want %v, got %v", want, v)
	}
}

func TestSyncModeProp(t *testing.T) {
	props := NewProps()
	newStage(props)

	if err := props.Set("sync", "sync"); err != nil {
		t.Error(err)
	}
	if err := props.Set("sync", "swing"); err == nil {
		t.Error("expected an invalid mode error")
	}
	if err := props.Set("sync", 1); err == nil {
		t.Error("expected a type error")
	}
}

func TestPropsKeys(t *testing.T) {
	props := NewProps()
	newStage(props)

	keys := props.Keys()
	if len(keys) == 0 {
		t.Fatal("expected registered keys")
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] >= keys[i] {
			t.Fatalf("keys not sorted: %v before %v", keys[i-1], keys[i])
		}
	}
}
