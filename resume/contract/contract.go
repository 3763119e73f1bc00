package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"resume-studio/resume/model"
)

// ErrNotJSON is returned when the payload is empty or not syntactically JSON.
var ErrNotJSON = errors.New("payload is not valid JSON")

// SchemaError lists every path that violates ResumeSchema.
type SchemaError struct {
	Problems []string
}

func (e SchemaError) Error() string {
	return "schema violation: " + strings.Join(e.Problems, "; ")
}

// Decode parses raw model output into ResumeData. Unlike encoding/json it
// distinguishes an omitted or null field from an empty one: every required
// path must be present with the declared JSON type. Duplicate keys are
// rejected so the checked value and the decoded value are the same.
func Decode(raw []byte) (model.ResumeData, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return model.ResumeData{}, ErrNotJSON
	}

	if problems := Check(gjson.ParseBytes(trimmed), ResumeSchema); len(problems) > 0 {
		return model.ResumeData{}, SchemaError{Problems: problems}
	}

	var data model.ResumeData
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return model.ResumeData{}, SchemaError{Problems: []string{err.Error()}}
	}
	if err := data.Validate(); err != nil {
		return model.ResumeData{}, SchemaError{Problems: []string{err.Error()}}
	}
	return data, nil
}

// Check walks value against s and returns one entry per violation.
func Check(value gjson.Result, s *Schema) []string {
	var problems []string
	check(value, s, "", &problems)
	return problems
}

func check(value gjson.Result, s *Schema, path string, problems *[]string) {
	switch s.Type {
	case TypeString:
		if value.Type != gjson.String {
			*problems = append(*problems, describe(path, "must be a string"))
		}
	case TypeArray:
		if !value.IsArray() {
			*problems = append(*problems, describe(path, "must be an array"))
			return
		}
		for i, item := range value.Array() {
			check(item, s.Items, fmt.Sprintf("%s[%d]", path, i), problems)
		}
	case TypeObject:
		if !value.IsObject() {
			*problems = append(*problems, describe(path, "must be an object"))
			return
		}
		seen := make(map[string]int)
		value.ForEach(func(key, _ gjson.Result) bool {
			seen[key.String()]++
			if seen[key.String()] == 2 {
				*problems = append(*problems, describe(joinPath(path, key.String()), "is duplicated"))
			}
			return true
		})
		for _, p := range s.Properties {
			child := value.Get(p.Name)
			childPath := joinPath(path, p.Name)
			required := s.IsRequired(p.Name)
			if !child.Exists() {
				if required {
					*problems = append(*problems, describe(childPath, "is required"))
				}
				continue
			}
			if child.Type == gjson.Null {
				if required {
					*problems = append(*problems, describe(childPath, "must not be null"))
				}
				continue
			}
			check(child, p.Schema, childPath, problems)
		}
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func describe(path, issue string) string {
	if path == "" {
		return "root " + issue
	}
	return path + " " + issue
}
