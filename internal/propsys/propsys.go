// Package propsys implements the FBX property system: a sorted,
// deduplicated property array per object, chained to a template's
// defaults, chained in turn to the global default properties. Object
// readers build an unsorted scratch slice while reading a node's
// "Properties60"/"Properties70" children; this package sorts it,
// removes entries that are redundant with a default, and exposes
// lookup.
package propsys

import "sort"

// PropertyType distinguishes how a property's value should be read.
type PropertyType uint8

const (
	TypeUnknown PropertyType = iota
	TypeBool
	TypeInt
	TypeReal
	TypeString
	TypeVec3
	TypeColor
)

// Property is one {name, type, value} entry. ImpKey is the first four
// bytes of Name packed big-endian, used to accelerate comparison and
// binary search before falling back to a full string compare.
type Property struct {
	Name      string
	ImpKey    uint32
	Type      PropertyType
	ValueStr  string
	ValueInt  int64
	ValueReal float64
	ValueVec3 [3]float64
}

func impKey(name string) uint32 {
	var b [4]byte
	for i := 0; i < 4 && i < len(name); i++ {
		b[i] = name[i]
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// NewProperty builds a Property with ImpKey derived from name.
func NewProperty(name string, typ PropertyType) Property {
	return Property{Name: name, ImpKey: impKey(name), Type: typ}
}

// Equal reports whether two properties carry the same name and value,
// used by default-stripping to decide whether an object's property is
// redundant with its template/global default.
func (p Property) Equal(o Property) bool {
	if p.Name != o.Name || p.Type != o.Type {
		return false
	}
	switch p.Type {
	case TypeString:
		return p.ValueStr == o.ValueStr
	case TypeVec3, TypeColor:
		return p.ValueVec3 == o.ValueVec3
	case TypeReal:
		return p.ValueReal == o.ValueReal
	default:
		return p.ValueInt == o.ValueInt
	}
}

// less orders properties by (ImpKey, Name): ImpKey first since it's a
// single machine-word compare, then the full name breaks ties when a
// 4-byte prefix collides (common among FBX's many "Lcl_*"/"*Color"
// names) — per _examples/original_source/ufbx.c's sort tie-break.
func less(a, b Property) bool {
	if a.ImpKey != b.ImpKey {
		return a.ImpKey < b.ImpKey
	}
	return a.Name < b.Name
}

// Props is one object's property array plus its template/defaults
// chain.
type Props struct {
	Items    []Property
	Defaults *Props
}

// Find looks up name, walking the Defaults chain if not found locally.
// The chain is guaranteed acyclic (built bottom-up per load, never
// mutated after construction) and terminates at DefaultProps().
func (p *Props) Find(name string) (Property, bool) {
	for cur := p; cur != nil; cur = cur.Defaults {
		if v, ok := cur.findLocal(name); ok {
			return v, true
		}
	}
	return Property{}, false
}

func (p *Props) findLocal(name string) (Property, bool) {
	key := impKey(name)
	i := sort.Search(len(p.Items), func(i int) bool {
		if p.Items[i].ImpKey != key {
			return p.Items[i].ImpKey >= key
		}
		return p.Items[i].Name >= name
	})
	if i < len(p.Items) && p.Items[i].ImpKey == key && p.Items[i].Name == name {
		return p.Items[i], true
	}
	return Property{}, false
}

// sortThreshold is the insertion-sort/merge-sort crossover point named
// in spec.md §4.8 ("insertion sort for small counts (<32 entries)...
// merge sort otherwise").
const sortThreshold = 32

// SortDedup sorts items in place by (ImpKey, Name) and removes
// duplicates (a later entry with the same key overwrites an earlier
// one, matching "a property whose (imp_key, name) equals its
// predecessor overwrites it").
func SortDedup(items []Property) []Property {
	if len(items) < sortThreshold {
		insertionSort(items)
	} else {
		sort.Stable(bySortKey(items))
	}
	return dedupSorted(items)
}

type bySortKey []Property

func (s bySortKey) Len() int           { return len(s) }
func (s bySortKey) Less(i, j int) bool { return less(s[i], s[j]) }
func (s bySortKey) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func insertionSort(items []Property) {
	for i := 1; i < len(items); i++ {
		v := items[i]
		j := i - 1
		for j >= 0 && less(v, items[j]) {
			items[j+1] = items[j]
			j--
		}
		items[j+1] = v
	}
}

func dedupSorted(items []Property) []Property {
	if len(items) == 0 {
		return items
	}
	out := items[:1]
	for i := 1; i < len(items); i++ {
		if items[i].ImpKey == out[len(out)-1].ImpKey && items[i].Name == out[len(out)-1].Name {
			out[len(out)-1] = items[i] // later entry wins
			continue
		}
		out = append(out, items[i])
	}
	return out
}

// RemoveDefaults drops, from sorted items, every entry equal (by name
// and value) to the corresponding entry reachable through defaults,
// returning the pruned slice. Objects that no longer carry a property
// still resolve it through Props.Find via the Defaults chain.
func RemoveDefaults(items []Property, defaults *Props) []Property {
	if defaults == nil {
		return items
	}
	out := items[:0]
	for _, it := range items {
		if dv, ok := defaults.Find(it.Name); ok && dv.Equal(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// DefaultProps returns FBX's standard property defaults. It builds a
// fresh value on every call (never a package-level var) so separate
// callers never share mutable state,
// per spec.md §9's "Global mutable state" design note.
func DefaultProps() *Props {
	return &Props{Items: SortDedup([]Property{
		vec3Prop("Lcl Translation", 0, 0, 0),
		vec3Prop("Lcl Rotation", 0, 0, 0),
		vec3Prop("Lcl Scaling", 1, 1, 1),
		vec3Prop("RotationOffset", 0, 0, 0),
		vec3Prop("RotationPivot", 0, 0, 0),
		vec3Prop("PreRotation", 0, 0, 0),
		vec3Prop("PostRotation", 0, 0, 0),
		vec3Prop("ScalingOffset", 0, 0, 0),
		vec3Prop("ScalingPivot", 0, 0, 0),
		intProp("RotationOrder", 0),
		intProp("InheritType", 0),
		intProp("RotationActive", 0),
		intProp("ScalingActive", 0),
		vec3Prop("DiffuseColor", 0.8, 0.8, 0.8),
		vec3Prop("AmbientColor", 0.2, 0.2, 0.2),
		vec3Prop("SpecularColor", 0.2, 0.2, 0.2),
	})}
}

func vec3Prop(name string, x, y, z float64) Property {
	p := NewProperty(name, TypeVec3)
	p.ValueVec3 = [3]float64{x, y, z}
	return p
}

func intProp(name string, v int64) Property {
	p := NewProperty(name, TypeInt)
	p.ValueInt = v
	return p
}
