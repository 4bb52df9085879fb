package value

// TrimNulls removes every property of obj whose value is null.
// Only the top level is touched.
func TrimNulls(obj *Object) {
	if obj == nil {
		return
	}
	for _, k := range obj.Keys() {
		if IsNull(obj.fields[k]) {
			obj.Delete(k)
		}
	}
}

// TrimNullsRecursive removes null properties from obj and from every
// object reachable through object-valued properties. Arrays are not
// descended into. Objects already on the current descent path are
// skipped, so self-referencing trees terminate. Identity is by pointer:
// two equal but distinct objects are both visited.
func TrimNullsRecursive(obj *Object) {
	if obj == nil {
		return
	}
	trimRecursive(obj, make(map[*Object]struct{}))
}

func trimRecursive(obj *Object, path map[*Object]struct{}) {
	path[obj] = struct{}{}
	defer delete(path, obj)

	for _, k := range obj.Keys() {
		switch v := obj.fields[k].(type) {
		case nil, Null:
			obj.Delete(k)
		case *Object:
			if _, onPath := path[v]; v != nil && !onPath {
				trimRecursive(v, path)
			}
		}
	}
}
