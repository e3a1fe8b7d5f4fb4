package validation

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/ncdc/pkg/problem"
)

// walk compares v against s and returns every problem found at or below path.
func walk(s *jsonschema.Schema, v any, path string) []problem.Problem {
	if s == nil {
		return nil
	}
	if s.Always != nil {
		if *s.Always {
			return nil
		}
		return []problem.Problem{
			problem.New(problem.TypeType, path, "nothing", jsonType(v)).WithMessage("no value is allowed here"),
		}
	}

	var problems []problem.Problem
	for _, ref := range []*jsonschema.Schema{s.Ref, s.RecursiveRef, s.DynamicRef} {
		if ref != nil {
			problems = append(problems, walk(ref, v, path)...)
		}
	}

	if len(s.Types) > 0 && !matchesType(s.Types, v) {
		return append(problems, problem.New(problem.TypeType, path, expectedType(s.Types), jsonType(v)))
	}

	if len(s.Constant) > 0 {
		want := normalize(s.Constant[0])
		if !equal(want, v) {
			problems = append(problems, problem.New(problem.TypeEnum, path, []any{want}, v))
		}
	}
	if len(s.Enum) > 0 && !inEnum(s.Enum, v) {
		problems = append(problems, problem.New(problem.TypeEnum, path, normalize(s.Enum), v))
	}

	switch val := v.(type) {
	case map[string]any:
		problems = append(problems, walkObject(s, val, path)...)
	case []any:
		problems = append(problems, walkArray(s, val, path)...)
	}

	for _, sub := range s.AllOf {
		problems = append(problems, walk(sub, v, path)...)
	}
	if len(s.AnyOf) > 0 && !anyBranch(s.AnyOf, v, path) {
		problems = append(problems, problem.New(problem.TypeUnion, path, len(s.AnyOf), jsonType(v)))
	}
	if len(s.OneOf) > 0 && !anyBranch(s.OneOf, v, path) {
		problems = append(problems, problem.New(problem.TypeUnion, path, len(s.OneOf), jsonType(v)))
	}

	if s.Not != nil && len(walk(s.Not, v, path)) == 0 {
		problems = append(problems, problem.New(problem.TypeNot, path, nil, v))
	}
	if s.If != nil {
		if len(walk(s.If, v, path)) == 0 {
			problems = append(problems, walk(s.Then, v, path)...)
		} else {
			problems = append(problems, walk(s.Else, v, path)...)
		}
	}

	return problems
}

func walkObject(s *jsonschema.Schema, obj map[string]any, path string) []problem.Problem {
	var problems []problem.Problem

	for _, name := range s.Required {
		if _, ok := obj[name]; !ok {
			problems = append(problems, problem.New(problem.TypeRequired, problem.Pointer(path, name), name, nil))
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		child := problem.Pointer(path, key)

		if ps, ok := s.Properties[key]; ok {
			problems = append(problems, walk(ps, obj[key], child)...)
			continue
		}

		matched := false
		for re, ps := range s.PatternProperties {
			if re.MatchString(key) {
				matched = true
				problems = append(problems, walk(ps, obj[key], child)...)
			}
		}
		if matched {
			continue
		}

		switch ap := s.AdditionalProperties.(type) {
		case bool:
			if !ap {
				problems = append(problems, problem.New(problem.TypeAdditional, child, nil, obj[key]))
			}
		case *jsonschema.Schema:
			problems = append(problems, walk(ap, obj[key], child)...)
		}
	}

	return problems
}

func walkArray(s *jsonschema.Schema, arr []any, path string) []problem.Problem {
	var problems []problem.Problem
	at := func(i int) string { return problem.Pointer(path, strconv.Itoa(i)) }

	// draft-04 to 2019-09
	switch items := s.Items.(type) {
	case *jsonschema.Schema:
		for i, el := range arr {
			problems = append(problems, walk(items, el, at(i))...)
		}
	case []*jsonschema.Schema:
		for i, el := range arr {
			if i < len(items) {
				problems = append(problems, walk(items[i], el, at(i))...)
				continue
			}
			switch extra := s.AdditionalItems.(type) {
			case bool:
				if !extra {
					problems = append(problems, problem.New(problem.TypeAdditional, at(i), nil, el))
				}
			case *jsonschema.Schema:
				problems = append(problems, walk(extra, el, at(i))...)
			}
		}
	}

	// 2020-12
	for i, ps := range s.PrefixItems {
		if i < len(arr) {
			problems = append(problems, walk(ps, arr[i], at(i))...)
		}
	}
	if s.Items2020 != nil {
		for i := len(s.PrefixItems); i < len(arr); i++ {
			problems = append(problems, walk(s.Items2020, arr[i], at(i))...)
		}
	}

	return problems
}

func anyBranch(branches []*jsonschema.Schema, v any, path string) bool {
	for _, b := range branches {
		if len(walk(b, v, path)) == 0 {
			return true
		}
	}
	return false
}

func inEnum(enum []any, v any) bool {
	for _, e := range enum {
		if equal(normalize(e), v) {
			return true
		}
	}
	return false
}

// jsonType names the JSON type of a normalized value.
func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}

func matchesType(types []string, v any) bool {
	actual := jsonType(v)
	for _, t := range types {
		if t == actual {
			return true
		}
		if t == "integer" && actual == "number" {
			f := v.(float64)
			if f == math.Trunc(f) && !math.IsInf(f, 0) {
				return true
			}
		}
	}
	return false
}

func expectedType(types []string) string {
	if len(types) == 1 {
		return types[0]
	}
	return strings.Join(types, " | ")
}
