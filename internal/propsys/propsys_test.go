package propsys

import "testing"

func TestSortDedupInsertion(t *testing.T) {
	items := []Property{
		NewProperty("Zeta", TypeInt),
		NewProperty("Alpha", TypeInt),
		NewProperty("Mu", TypeInt),
	}
	out := SortDedup(items)
	if len(out) != 3 {
		t.Fatalf("got %d items, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if less(out[i], out[i-1]) {
			t.Fatalf("items not sorted at %d: %+v before %+v", i, out[i-1], out[i])
		}
	}
}

func TestSortDedupMergeSortPath(t *testing.T) {
	items := make([]Property, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, intProp(string(rune('a'+i%26)), int64(i)))
	}
	out := SortDedup(items)
	for i := 1; i < len(out); i++ {
		if less(out[i], out[i-1]) {
			t.Fatalf("items not sorted at %d", i)
		}
	}
}

func TestSortDedupLaterEntryWins(t *testing.T) {
	items := []Property{
		intProp("Dup", 1),
		intProp("Dup", 2),
	}
	out := SortDedup(items)
	if len(out) != 1 {
		t.Fatalf("got %d items, want 1", len(out))
	}
	if out[0].ValueInt != 2 {
		t.Fatalf("got %d, want later entry's value 2", out[0].ValueInt)
	}
}

func TestPropsFindChainsThroughDefaults(t *testing.T) {
	base := &Props{Items: SortDedup([]Property{intProp("A", 1)})}
	mid := &Props{Items: SortDedup([]Property{intProp("B", 2)}), Defaults: base}
	top := &Props{Items: SortDedup([]Property{intProp("C", 3)}), Defaults: mid}

	if p, ok := top.Find("A"); !ok || p.ValueInt != 1 {
		t.Fatalf("Find(A) = %+v, %v", p, ok)
	}
	if p, ok := top.Find("B"); !ok || p.ValueInt != 2 {
		t.Fatalf("Find(B) = %+v, %v", p, ok)
	}
	if p, ok := top.Find("C"); !ok || p.ValueInt != 3 {
		t.Fatalf("Find(C) = %+v, %v", p, ok)
	}
	if _, ok := top.Find("Missing"); ok {
		t.Fatal("Find(Missing) unexpectedly found a value")
	}
}

func TestRemoveDefaultsStripsEqualEntries(t *testing.T) {
	defaults := &Props{Items: SortDedup([]Property{
		vec3Prop("Lcl Scaling", 1, 1, 1),
		intProp("RotationOrder", 0),
	})}
	items := SortDedup([]Property{
		vec3Prop("Lcl Scaling", 1, 1, 1), // equal to default, should be stripped
		intProp("RotationOrder", 2),      // differs, should be kept
	})
	out := RemoveDefaults(items, defaults)
	if len(out) != 1 {
		t.Fatalf("got %d items, want 1, out=%+v", len(out), out)
	}
	if out[0].Name != "RotationOrder" || out[0].ValueInt != 2 {
		t.Fatalf("unexpected surviving item %+v", out[0])
	}
}

func TestDefaultPropsSortedAndFindable(t *testing.T) {
	d := DefaultProps()
	if p, ok := d.Find("Lcl Scaling"); !ok || p.ValueVec3 != ([3]float64{1, 1, 1}) {
		t.Fatalf("Lcl Scaling default = %+v, %v", p, ok)
	}
	for i := 1; i < len(d.Items); i++ {
		if less(d.Items[i], d.Items[i-1]) {
			t.Fatalf("DefaultProps() not sorted at %d", i)
		}
	}
}
