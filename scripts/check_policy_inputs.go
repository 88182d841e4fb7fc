//go:build tools
// +build tools

package main

import (
	"encoding/json"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Schema represents a JSON Schema object from input.json
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Property represents a JSON Schema property
type Property struct {
	Type string `json:"type"`
}

// getRequiredFields parses the policy input schema to get required field names
func getRequiredFields(schemaPath string) ([]string, error) {
	data, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	return schema.Required, nil
}

// getProvidedFields returns the json tag names of the PolicyInput struct
// declared in path.
func getProvidedFields(path, typeName string) (map[string]bool, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, 0)
	if err != nil {
		return nil, err
	}

	provided := make(map[string]bool)
	found := false
	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok || ts.Name.Name != typeName {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return false
		}
		found = true
		for _, field := range st.Fields.List {
			if field.Tag == nil {
				continue
			}
			raw, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				continue
			}
			name, _, _ := strings.Cut(reflect.StructTag(raw).Get("json"), ",")
			if name != "" && name != "-" {
				provided[name] = true
			}
		}
		return false
	})
	if !found {
		return nil, fmt.Errorf("type %s not found in %s", typeName, path)
	}
	return provided, nil
}

func main() {
	required, err := getRequiredFields("policy/rego/input.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting required fields: %v\n", err)
		os.Exit(1)
	}

	provided, err := getProvidedFields("pkg/gate/policy.go", "PolicyInput")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning policy input: %v\n", err)
		os.Exit(1)
	}

	missing := []string{}
	for _, name := range required {
		if !provided[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: The following required policy inputs are not produced by gate.PolicyInput:\n")
		for _, name := range missing {
			fmt.Fprintf(os.Stderr, "  - %s\n", name)
		}
		os.Exit(1)
	}

	fmt.Println("SUCCESS: All required policy inputs are produced.")
}
