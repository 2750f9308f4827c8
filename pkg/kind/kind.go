// Package kind classifies loosely typed values, such as decoded JSON or YAML,
// into a small set of value kinds and offers emptiness checks over them.
package kind

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
)

// Kind is the coarse type of a value.
type Kind int

const (
	Unknown Kind = iota
	Null
	Boolean
	Number
	String
	Function
	Array
	Date
	RegExp
	Object
)

var kindNames = map[Kind]string{
	Unknown:  "unknown",
	Null:     "null",
	Boolean:  "boolean",
	Number:   "number",
	String:   "string",
	Function: "function",
	Array:    "array",
	Date:     "date",
	RegExp:   "regExp",
	Object:   "object",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[Unknown]
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf(regexp.Regexp{})
)

// TypeOf classifies v. Pointers are followed; a nil pointer is Null.
func TypeOf(v any) Kind {
	if v == nil {
		return Null
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Null
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case timeType:
		return Date
	case regexpType:
		return RegExp
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.String:
		if rv.Type().Name() == "Number" && rv.Type().PkgPath() == "encoding/json" {
			return Number
		}
		return String
	case reflect.Func:
		if rv.IsNil() {
			return Null
		}
		return Function
	case reflect.Slice:
		if rv.IsNil() {
			return Null
		}
		return Array
	case reflect.Array:
		return Array
	case reflect.Map:
		if rv.IsNil() {
			return Null
		}
		return Object
	case reflect.Struct:
		return Object
	}
	return Unknown
}

// IsNull reports whether v is nil, a nil pointer, or a nil slice, map or func.
func IsNull(v any) bool { return TypeOf(v) == Null }

// IsBoolean reports whether v is a bool.
func IsBoolean(v any) bool { return TypeOf(v) == Boolean }

// IsNumber reports whether v is an integer, a float, or a json.Number.
func IsNumber(v any) bool { return TypeOf(v) == Number }

// IsString reports whether v is a string other than json.Number.
func IsString(v any) bool { return TypeOf(v) == String }

// IsFunction reports whether v is a non-nil func.
func IsFunction(v any) bool { return TypeOf(v) == Function }

// IsArray reports whether v is an array or a non-nil slice.
func IsArray(v any) bool { return TypeOf(v) == Array }

// IsDate reports whether v is a time.Time.
func IsDate(v any) bool { return TypeOf(v) == Date }

// IsRegExp reports whether v is a regexp.Regexp.
func IsRegExp(v any) bool { return TypeOf(v) == RegExp }

// IsObject reports whether v is a non-nil map or a struct that is neither a
// date nor a regexp.
func IsObject(v any) bool { return TypeOf(v) == Object }

// Trim formats v and strips surrounding whitespace. Null values yield "".
func Trim(v any) string {
	if IsNull(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// IsNullOrEmpty reports whether s is nil or points to "".
func IsNullOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// IsNullOrWhiteSpace reports whether v is null or formats to blank text.
func IsNullOrWhiteSpace(v any) bool {
	return Trim(v) == ""
}

// IsEmptyObject reports whether v is a map without keys. Non-maps and nil
// maps are not empty objects.
func IsEmptyObject(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.IsNil() {
		return false
	}
	return rv.Len() == 0
}

// IsEmpty reports whether v carries no content: blank strings, empty arrays,
// zero dates, objects without fields, and null values.
func IsEmpty(v any) bool {
	switch TypeOf(v) {
	case String:
		return IsNullOrWhiteSpace(v)
	case Array:
		return reflect.Indirect(reflect.ValueOf(v)).Len() == 0
	case Date:
		return reflect.Indirect(reflect.ValueOf(v)).Interface().(time.Time).IsZero()
	case Object:
		rv := reflect.Indirect(reflect.ValueOf(v))
		if rv.Kind() == reflect.Map {
			return rv.Len() == 0
		}
		return rv.IsZero()
	case Null:
		return true
	}
	return false
}
