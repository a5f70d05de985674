package apicheck

import (
	"reflect"
	"slices"

	json "github.com/json-iterator/go"
	"golang.org/x/exp/maps"
)

func isEmpty(v any) bool {
	switch b := v.(type) {
	case nil:
		return true
	case string:
		return b == ""
	case map[string]any:
		return len(b) == 0
	case []any:
		return len(b) == 0
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

func equal(got, want any) bool {
	g, gok := number(got)
	w, wok := number(want)
	if gok && wok {
		return g == w
	}
	return reflect.DeepEqual(got, want)
}

func sortedKeys(s Schema) []string {
	keys := maps.Keys(s)
	slices.Sort(keys)
	return keys
}
