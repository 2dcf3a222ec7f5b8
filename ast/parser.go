package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
	"gopkg.in/yaml.v3"
)

// ReaderFn is used for functional inputs to abstract the individual
// entrypoints for the reader itself.
type ReaderFn func() (io.Reader, error)

// Encoding describes the encoding of a program document.
type Encoding int

// encoding types
const (
	EncodingYAML Encoding = iota + 1
	EncodingJSON
)

// EncodingFromPath guesses the encoding of a program file from its
// extension. Anything not ending in .json is read as YAML.
func EncodingFromPath(path string) Encoding {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return EncodingJSON
	}
	return EncodingYAML
}

// Parse decodes a program document.
//
// A document is a node or a list of nodes forming a block. Scalars are
// literals; every other node is a map keyed by its kind:
//
//	- assign: {target: .message, value: {path: .raw}}
//	- assign:
//	    target: $parsed
//	    value: {call: parse_common_log, args: {value: {path: .message}}}
//	- if: {cond: {not: {var: ok}}, then: {block: []}, else: null}
//	- binary: {op: "+", lhs: 1, rhs: 2}
//	- {array: [1, two]}
//	- {map: {a: 1}}
//	- {regex: "^a+$"}
//	- {timestamp: "2000-10-10T20:55:36Z"}
//	- {noop: null}
//
// Call arguments are a list for positional arguments or a map for
// keyword arguments.
func Parse(encoding Encoding, readerFn ReaderFn) (Node, error) {
	r, err := readerFn()
	if err != nil {
		return nil, err
	}

	switch encoding {
	case EncodingYAML:
		return parseYAML(r)
	case EncodingJSON:
		return parseJSON(r)
	default:
		return nil, &errors.Error{Code: errors.EParse, Msg: "invalid encoding provided"}
	}
}

// FromFile reads a file from disk and provides a reader from it.
func FromFile(filePath string) ReaderFn {
	return func() (io.Reader, error) {
		b, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		return bytes.NewBuffer(b), nil
	}
}

// FromReader simply passes the reader along.
func FromReader(r io.Reader) ReaderFn {
	return func() (io.Reader, error) {
		return r, nil
	}
}

// FromString parses a program from a raw string value. This is very useful
// in tests.
func FromString(s string) ReaderFn {
	return func() (io.Reader, error) {
		return strings.NewReader(s), nil
	}
}

func parseYAML(r io.Reader) (Node, error) {
	return parse(yaml.NewDecoder(r))
}

func parseJSON(r io.Reader) (Node, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return parse(dec)
}

type decoder interface {
	Decode(interface{}) error
}

func parse(dec decoder) (Node, error) {
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, &errors.Error{Code: errors.EParse, Msg: "failed decoding program", Err: err}
	}

	if items, ok := raw.([]interface{}); ok {
		exprs, err := buildAll("program", items)
		if err != nil {
			return nil, err
		}
		return &Block{Exprs: exprs}, nil
	}
	return build("program", raw)
}

func parseErr(at string, format string, args ...interface{}) error {
	return &errors.Error{
		Code: errors.EParse,
		Op:   at,
		Msg:  at + ": " + fmt.Sprintf(format, args...),
	}
}

func buildAll(at string, items []interface{}) ([]Node, error) {
	nodes := make([]Node, len(items))
	for i, item := range items {
		n, err := build(fmt.Sprintf("%s[%d]", at, i), item)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return nodes, nil
}

func build(at string, raw interface{}) (Node, error) {
	switch raw := raw.(type) {
	case map[string]interface{}:
		return buildMap(at, raw)
	case []interface{}:
		return nil, parseErr(at, "unexpected list, use {array: [...]} or {block: [...]}")
	case json.Number:
		if i, err := raw.Int64(); err == nil {
			return &Literal{Value: value.Integer(i)}, nil
		}
		f, err := raw.Float64()
		if err != nil {
			return nil, parseErr(at, "invalid number %s", raw)
		}
		return &Literal{Value: value.Float(f)}, nil
	}
	v, err := value.FromInterface(raw)
	if err != nil {
		return nil, parseErr(at, "%v", err)
	}
	return &Literal{Value: v}, nil
}

func buildMap(at string, m map[string]interface{}) (Node, error) {
	if fn, ok := m["call"]; ok {
		return buildCall(at, fn, m)
	}
	if len(m) != 1 {
		return nil, parseErr(at, "expected a single node kind, got %s", strings.Join(keys(m), ", "))
	}

	kind := keys(m)[0]
	body := m[kind]
	at = at + "." + kind
	switch kind {
	case "path":
		s, err := str(at, body)
		return &Path{Path: s}, err
	case "var":
		s, err := str(at, body)
		return &Variable{Name: s}, err
	case "regex":
		s, err := str(at, body)
		return &Regex{Pattern: s}, err
	case "timestamp":
		s, err := str(at, body)
		return &Timestamp{Value: s}, err
	case "noop":
		return &Noop{}, nil
	case "not":
		n, err := build(at, body)
		if err != nil {
			return nil, err
		}
		return &Not{Expr: n}, nil
	case "array", "block":
		items, ok := body.([]interface{})
		if !ok && body != nil {
			return nil, parseErr(at, "expected a list")
		}
		nodes, err := buildAll(at, items)
		if err != nil {
			return nil, err
		}
		if kind == "block" {
			return &Block{Exprs: nodes}, nil
		}
		return &Array{Items: nodes}, nil
	case "map":
		entries, ok := body.(map[string]interface{})
		if !ok && body != nil {
			return nil, parseErr(at, "expected a map")
		}
		out := make(map[string]Node, len(entries))
		for k, f := range entries {
			n, err := build(at+"."+k, f)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return &Map{Fields: out}, nil
	case "assign":
		return buildAssign(at, body)
	case "if":
		return buildIf(at, body)
	case "binary":
		return buildBinary(at, body)
	}
	return nil, parseErr(at, "unknown node kind %q", kind)
}

func fields(at string, body interface{}, required ...string) (map[string]interface{}, error) {
	m, ok := body.(map[string]interface{})
	if !ok {
		return nil, parseErr(at, "expected a map")
	}
	for _, k := range required {
		if _, ok := m[k]; !ok {
			return nil, parseErr(at, "missing %q", k)
		}
	}
	return m, nil
}

func buildAssign(at string, body interface{}) (Node, error) {
	m, err := fields(at, body, "target", "value")
	if err != nil {
		return nil, err
	}
	target, err := str(at+".target", m["target"])
	if err != nil {
		return nil, err
	}
	v, err := build(at+".value", m["value"])
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(target, "$") {
		return &Assignment{Target: &Variable{Name: target[1:]}, Value: v}, nil
	}
	return &Assignment{Target: &Path{Path: target}, Value: v}, nil
}

func buildIf(at string, body interface{}) (Node, error) {
	m, err := fields(at, body, "cond", "then")
	if err != nil {
		return nil, err
	}
	n := &If{}
	if n.Cond, err = build(at+".cond", m["cond"]); err != nil {
		return nil, err
	}
	if n.Then, err = build(at+".then", m["then"]); err != nil {
		return nil, err
	}
	if e, ok := m["else"]; ok && e != nil {
		if n.Else, err = build(at+".else", e); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func buildBinary(at string, body interface{}) (Node, error) {
	m, err := fields(at, body, "op", "lhs", "rhs")
	if err != nil {
		return nil, err
	}
	n := &Binary{}
	if n.Op, err = str(at+".op", m["op"]); err != nil {
		return nil, err
	}
	if n.LHS, err = build(at+".lhs", m["lhs"]); err != nil {
		return nil, err
	}
	if n.RHS, err = build(at+".rhs", m["rhs"]); err != nil {
		return nil, err
	}
	return n, nil
}

func buildCall(at string, fn interface{}, m map[string]interface{}) (Node, error) {
	for k := range m {
		if k != "call" && k != "args" {
			return nil, parseErr(at, "unexpected %q in call", k)
		}
	}
	name, err := str(at+".call", fn)
	if err != nil {
		return nil, err
	}
	call := &Call{Function: name}

	switch args := m["args"].(type) {
	case nil:
	case []interface{}:
		for i, a := range args {
			n, err := build(fmt.Sprintf("%s.args[%d]", at, i), a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, Argument{Value: n})
		}
	case map[string]interface{}:
		for _, k := range keys(args) {
			n, err := build(at+".args."+k, args[k])
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, Argument{Keyword: k, Value: n})
		}
	default:
		return nil, parseErr(at+".args", "expected a list or a map")
	}
	return call, nil
}

func str(at string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", parseErr(at, "expected a string, got %T", v)
	}
	return s, nil
}

func keys(m map[string]interface{}) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
