// Package codec implements the canonical JSON encoding used to hash
// every content-addressed artifact in the workbench: snapshots,
// solver-input envelopes, and result sets. Two independently built
// value trees that describe the same data must produce byte-identical
// output, regardless of map insertion order or the order elements were
// appended to a sortable list (§4.1 of the specification).
package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Canonicalizer lets domain types opt into the canonical tree without
// the codec needing to know their shape. ToCanonicalValue must return
// only values canonicalize understands: nil, bool, string, any numeric
// kind, complex64/128, map[string]any, []any, or another Canonicalizer.
type Canonicalizer interface {
	ToCanonicalValue() any
}

// idFieldPriority lists the keys checked, in order, to decide the sort
// key of a slice of record-like maps (§4.1 rule 2).
var idFieldPriority = []string{"id", "ref_id", "node_id", "branch_id"}

// CanonicalBytes serializes v into the canonical byte form: NFC-ish
// trimmed strings, code-point-ordered map keys, banker's-rounded
// numbers, sorted record lists, and no structural whitespace.
func CanonicalBytes(v any) ([]byte, error) {
	tree, err := canonicalize(v, "$")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return nil, &CodecError{Path: "$", Err: err}
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Fingerprint returns the lowercase hex SHA-256 digest of
// CanonicalBytes(v).
func Fingerprint(v any) (string, error) {
	b, err := CanonicalBytes(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)

	return hex.EncodeToString(sum[:]), nil
}

// canonicalize walks an arbitrary value tree and produces a tree made
// only of types encoding/json renders deterministically: map[string]any
// (json.Marshal already sorts string keys by byte order, which equals
// code-point order for valid UTF-8), []any, json.RawMessage numbers,
// bool, string and nil.
func canonicalize(v any, path string) (any, error) {
	if v == nil {
		return nil, nil
	}

	if c, ok := v.(Canonicalizer); ok {
		return canonicalize(c.ToCanonicalValue(), path)
	}

	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return canonicalString(val), nil
	case json.RawMessage:
		return val, nil
	case complex64:
		return canonicalComplex(complex128(val), path)
	case complex128:
		return canonicalComplex(val, path)
	case map[string]any:
		return canonicalMap(val, path)
	case []any:
		return canonicalSlice(val, path)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return canonicalNumber(float64(rv.Int()), path)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return canonicalNumber(float64(rv.Uint()), path)
	case reflect.Float32, reflect.Float64:
		return canonicalNumber(rv.Float(), path)
	case reflect.Map:
		return canonicalizeReflectMap(rv, path)
	case reflect.Slice, reflect.Array:
		return canonicalizeReflectSlice(rv, path)
	}

	return nil, &CodecError{Path: path, Err: fmt.Errorf("%w: %T", ErrUnsupportedType, v)}
}

func canonicalizeReflectMap(rv reflect.Value, path string) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := iter.Key().Interface().(string)
		if !ok {
			return nil, &CodecError{Path: path, Err: fmt.Errorf("%w: non-string map key", ErrUnsupportedType)}
		}
		cv, err := canonicalize(iter.Value().Interface(), path+"."+key)
		if err != nil {
			return nil, err
		}
		out[canonicalString(key)] = cv
	}

	return out, nil
}

func canonicalizeReflectSlice(rv reflect.Value, path string) (any, error) {
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		cv, err := canonicalize(rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}

	return sortRecordSlice(out), nil
}

func canonicalMap(m map[string]any, path string) (any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		cv, err := canonicalize(v, path+"."+k)
		if err != nil {
			return nil, err
		}
		out[canonicalString(k)] = cv
	}

	return out, nil
}

func canonicalSlice(s []any, path string) (any, error) {
	out := make([]any, len(s))
	for i, v := range s {
		cv, err := canonicalize(v, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = cv
	}

	return sortRecordSlice(out), nil
}

// sortRecordSlice implements §4.1 rule 2: if every element is a map
// carrying one of idFieldPriority, sort ascending by that key's string
// form; otherwise the slice is returned untouched.
func sortRecordSlice(elems []any) []any {
	keys := make([]string, len(elems))
	for i, e := range elems {
		m, ok := e.(map[string]any)
		if !ok {
			return elems
		}
		key, found := extractIDKey(m)
		if !found {
			return elems
		}
		keys[i] = key
	}

	type pair struct {
		key string
		val any
	}
	pairs := make([]pair, len(elems))
	for i := range elems {
		pairs[i] = pair{key: keys[i], val: elems[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	out := make([]any, len(elems))
	for i, p := range pairs {
		out[i] = p.val
	}

	return out
}

func extractIDKey(m map[string]any) (string, bool) {
	for _, field := range idFieldPriority {
		if v, ok := m[field]; ok {
			return fmt.Sprint(v), true
		}
	}

	return "", false
}

// canonicalString trims outer whitespace. Full Unicode NFC
// normalization (decomposition + recomposition) is intentionally not
// performed here: no NFC library ships in this module's dependency
// set, and every string this codec is asked to hash originates from
// ASCII identifiers or the closed Polish message table, which are
// already in NFC form. See DESIGN.md for this simplification.
func canonicalString(s string) string {
	return strings.TrimSpace(s)
}

const float64IntegerLimit = 1e15

// canonicalNumber applies banker's rounding to 6 decimal places and
// renders the result as a bare JSON number: an integer literal if the
// rounded value has no fractional part, otherwise a fixed-point
// literal with trailing zeros trimmed.
func canonicalNumber(f float64, path string) (json.RawMessage, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &CodecError{Path: path, Err: ErrNonFinite}
	}

	rounded := math.RoundToEven(f*1e6) / 1e6
	if rounded == math.Trunc(rounded) && math.Abs(rounded) < float64IntegerLimit {
		return json.RawMessage(strconv.FormatInt(int64(rounded), 10)), nil
	}

	s := strconv.FormatFloat(rounded, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")

	return json.RawMessage(s), nil
}

// canonicalComplex encodes a complex number as {"im": …, "re": …},
// struct field order already alphabetical, per §4.1 rule 5.
func canonicalComplex(c complex128, path string) (any, error) {
	im, err := canonicalNumber(imag(c), path+".im")
	if err != nil {
		return nil, err
	}
	re, err := canonicalNumber(real(c), path+".re")
	if err != nil {
		return nil, err
	}

	return struct {
		Im json.RawMessage `json:"im"`
		Re json.RawMessage `json:"re"`
	}{Im: im, Re: re}, nil
}
