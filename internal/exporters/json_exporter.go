package exporters

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
	"github.com/sirupsen/logrus"
)

// jsonAPI writes indented UTF-8 JSON with sorted map keys. Values that
// have no JSON form are written as their text instead of failing.
var jsonAPI = func() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:    false,
		SortMapKeys:   true,
		IndentionStep: 2,
	}.Froze()
	api.RegisterExtension(&textFallbackExtension{})
	return api
}()

// JSONExporter writes data as a JSON document
type JSONExporter struct {
	baseExporter
}

// NewJSONExporter creates a JSON exporter writing into outputDir.
func NewJSONExporter(outputDir string, log logrus.FieldLogger) (*JSONExporter, error) {
	base, err := newBaseExporter(FormatJSON, outputDir, log)
	if err != nil {
		return nil, err
	}
	return &JSONExporter{baseExporter: base}, nil
}

// Export writes data to filename, adding .json when missing.
func (e *JSONExporter) Export(data any, filename string) (string, error) {
	path := e.path(filename)

	err := e.writeFile(path, func(w io.Writer) error {
		return jsonAPI.NewEncoder(w).Encode(data)
	})
	if err != nil {
		e.log.WithError(err).Error("Failed to export JSON")
		return "", err
	}

	e.logWritten(path, -1)
	return path, nil
}

// ExportMultiple writes one file per entry, named prefix + key. Files are
// written in key order.
func (e *JSONExporter) ExportMultiple(data map[string]any, prefix string) ([]string, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		path, err := e.Export(data[name], prefix+name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

type textFallbackExtension struct {
	jsoniter.DummyExtension
}

func (ext *textFallbackExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	switch typ.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return &textEncoder{typ: typ}
	case reflect.Float32, reflect.Float64:
		return &floatEncoder{kind: typ.Kind()}
	}
	return nil
}

// textEncoder writes any value as the string fmt would print for it.
type textEncoder struct {
	typ reflect2.Type
}

func (enc *textEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

func (enc *textEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString(fmt.Sprint(enc.typ.UnsafeIndirect(ptr)))
}

// floatEncoder writes NaN and infinities as strings.
type floatEncoder struct {
	kind reflect.Kind
}

func (enc *floatEncoder) value(ptr unsafe.Pointer) float64 {
	if enc.kind == reflect.Float32 {
		return float64(*(*float32)(ptr))
	}
	return *(*float64)(ptr)
}

func (enc *floatEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return enc.value(ptr) == 0
}

func (enc *floatEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := enc.value(ptr)
	switch {
	case math.IsNaN(v), math.IsInf(v, 0):
		stream.WriteString(fmt.Sprint(v))
	case enc.kind == reflect.Float32:
		stream.WriteFloat32(float32(v))
	default:
		stream.WriteFloat64(v)
	}
}
