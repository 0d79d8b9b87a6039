// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
// Attributes are evaluated with an `env` object holding the process
// environment, so `github_token = env.GITHUB_TOKEN` works.
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclIdent(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}

func hclIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// 📝 Parse parses settings from HCL attributes
func (p *HCLParser) Parse(ctx context.Context, data []byte, into *Settings) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "settings.hcl")
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	attrs, diags := hclFile.Body.JustAttributes()
	if diags.HasErrors() {
		return errors.Errorf("reading HCL attributes: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return errors.Errorf("evaluating %s: %s", name, diags.Error())
		}
		values[name] = v
	}
	if len(values) == 0 {
		return nil
	}

	obj := cty.ObjectVal(values)
	raw, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return errors.Errorf("converting HCL values: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(into); err != nil {
		return errors.Errorf("decoding HCL: %w", err)
	}
	return nil
}

// 📤 Encode renders settings as sorted HCL attributes
func (p *HCLParser) Encode(ctx context.Context, s *Settings) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Errorf("encoding settings: %w", err)
	}

	typ, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return nil, errors.Errorf("inferring settings type: %w", err)
	}
	val, err := ctyjson.Unmarshal(raw, typ)
	if err != nil {
		return nil, errors.Errorf("converting settings: %w", err)
	}

	values := val.AsValueMap()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, name := range names {
		body.SetAttributeValue(name, values[name])
	}
	return f.Bytes(), nil
}
