package dupkey

import "testing"

func TestFind_NoDuplicates(t *testing.T) {
	dups, err := Find([]byte(`{"id":"a","fields":["x","y"],"meta":[0,"[]"]}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("expected none, got %v", dups)
	}
}

func TestFind_TopLevel(t *testing.T) {
	dups, err := Find([]byte(`{"id":"a","fields":[],"id":"b"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(dups) != 1 || dups[0].Key != "id" || dups[0].Path != "/" {
		t.Fatalf("unexpected result: %v", dups)
	}
}

func TestFind_NestedPath(t *testing.T) {
	doc := `[{"id":"p","fields":["a"]},{"id":"c","x":{"k":1,"k":2}}]`
	dups, err := Find([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(dups) != 1 {
		t.Fatalf("expected one duplicate, got %v", dups)
	}
	if dups[0].Path != "/1/x" || dups[0].Key != "k" {
		t.Fatalf("unexpected duplicate: %+v", dups[0])
	}
}

func TestFind_StringValuesAreNotKeys(t *testing.T) {
	dups, err := Find([]byte(`{"a":"b","b":"a","c":["a","a"]}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("values must not count as keys: %v", dups)
	}
}
