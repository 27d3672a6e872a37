package xpgx

import (
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
)

var columnIndexes sync.Map

// columnIndex maps db tags of t, including those of untagged embedded
// structs, to field index paths. The first field with a tag wins.
func columnIndex(t reflect.Type) map[string][]int {
	if cached, ok := columnIndexes.Load(t); ok {
		return cached.(map[string][]int)
	}

	index := make(map[string][]int)
	collectColumns(t, nil, index)
	columnIndexes.Store(t, index)

	return index
}

func collectColumns(t reflect.Type, parent []int, index map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), parent...), i)
		tag, _, _ := strings.Cut(f.Tag.Get("db"), ",")

		switch {
		case tag == "-":
		case tag == "" && f.Anonymous && f.Type.Kind() == reflect.Struct:
			collectColumns(f.Type, path, index)
		case tag != "" && f.IsExported():
			if _, ok := index[tag]; !ok {
				index[tag] = path
			}
		}
	}
}

// structScanner scans a row into the db-tagged fields of dest, a pointer to
// a struct. Columns without a field are read and dropped.
type structScanner struct {
	dest reflect.Value
}

func (s structScanner) ScanRow(rows pgx.Rows) error {
	v := s.dest.Elem()
	index := columnIndex(v.Type())

	fields := rows.FieldDescriptions()
	targets := make([]any, len(fields))
	for i, fd := range fields {
		if path, ok := index[fd.Name]; ok {
			targets[i] = v.FieldByIndex(path).Addr().Interface()
		} else {
			targets[i] = new(any)
		}
	}

	return rows.Scan(targets...)
}

// scanRow scans the current row into ptr. Structs carrying db tags are
// scanned by column name, anything else as a single column.
func scanRow(rows pgx.Rows, ptr reflect.Value) error {
	t := ptr.Elem().Type()
	if t.Kind() == reflect.Struct && len(columnIndex(t)) > 0 {
		return rows.Scan(structScanner{dest: ptr})
	}
	return rows.Scan(ptr.Interface())
}
