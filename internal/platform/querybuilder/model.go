package querybuilder

import (
	"reflect"
	"strings"
	"sync"
)

var columnCache sync.Map

// ColumnsOf returns the db-tagged columns of a row struct, optionally
// qualified with a table alias. Fields tagged "-" or untagged are skipped.
func ColumnsOf(model any, alias string) []string {
	typ := reflect.TypeOf(model)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil
	}

	var cols []string
	if cached, ok := columnCache.Load(typ); ok {
		cols = cached.([]string)
	} else {
		cols = make([]string, 0, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if field.PkgPath != "" {
				continue
			}
			tag := strings.TrimSpace(field.Tag.Get("db"))
			col := strings.TrimSpace(strings.Split(tag, ",")[0])
			if col == "" || col == "-" {
				continue
			}
			cols = append(cols, col)
		}
		columnCache.Store(typ, cols)
	}

	out := make([]string, len(cols))
	for i, col := range cols {
		if alias != "" {
			col = alias + "." + col
		}
		out[i] = col
	}
	return out
}
