package config

import (
	"reflect"
	"strings"

	"github.com/optisvg/optisvg/job"
)

// FieldKind enumerates the abstract shapes a job option field can take,
// keyed off its encoding/json behavior since a job's options round-trip
// through encoding/json (config.Preset.Jobs).
type FieldKind int

const (
	KindAny FieldKind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// FieldShape describes one option field's static shape.
type FieldShape struct {
	Kind   FieldKind
	Elem   *FieldShape            // element shape if Kind == KindArray
	Fields map[string]*FieldShape // field shapes if Kind == KindObject
}

// JobSchema is a job's resolved option shape, keyed by the job's
// registry name.
type JobSchema struct {
	Job    string
	Fields map[string]*FieldShape
}

// Schema derives jobName's option schema by reflecting over the struct a
// fresh job.Registry instance resolves to: walking exported fields and
// mapping Go kinds to abstract shapes, recursing into nested
// structs/slices/maps.
func Schema(jobName string) (*JobSchema, error) {
	ctor, ok := job.Registry[jobName]
	if !ok {
		return nil, &ConfigError{Job: jobName, Reason: "unknown job"}
	}

	rv := reflect.ValueOf(ctor())
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	rt := rv.Type()

	fields := make(map[string]*FieldShape)
	seen := make(map[reflect.Type]*FieldShape)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.PkgPath != "" || f.Anonymous {
			// unexported, or an embedded BaseVisitor/warnings helper:
			// neither is a user-facing option.
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		fields[name] = shapeOf(f.Type, seen)
	}
	return &JobSchema{Job: jobName, Fields: fields}, nil
}

func fieldName(f reflect.StructField) string {
	if v := f.Tag.Get("json"); v != "" {
		if idx := strings.IndexByte(v, ','); idx >= 0 {
			v = v[:idx]
		}
		if v != "" {
			return v
		}
	}
	return f.Name
}

func shapeOf(rt reflect.Type, seen map[reflect.Type]*FieldShape) *FieldShape {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if s, ok := seen[rt]; ok {
		return s
	}

	switch rt.Kind() {
	case reflect.Bool:
		return &FieldShape{Kind: KindBool}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return &FieldShape{Kind: KindNumber}
	case reflect.String:
		return &FieldShape{Kind: KindString}
	case reflect.Slice, reflect.Array:
		return &FieldShape{Kind: KindArray, Elem: shapeOf(rt.Elem(), seen)}
	case reflect.Map:
		return &FieldShape{Kind: KindObject}
	case reflect.Struct:
		obj := &FieldShape{Kind: KindObject, Fields: make(map[string]*FieldShape)}
		seen[rt] = obj
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if f.PkgPath != "" {
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			obj.Fields[name] = shapeOf(f.Type, seen)
		}
		return obj
	default:
		return &FieldShape{Kind: KindAny}
	}
}
