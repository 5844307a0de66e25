package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/nsdep/pkg/rules"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// cwd is handy for root expressions like "${cwd}/scripts"
	cwd, _ := os.Getwd()
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cwd": cty.StringVal(cwd),
		},
	}

	// Define HCL schema
	type hclRule struct {
		Name    string `hcl:"name,label"`
		Pattern string `hcl:"pattern"`
		Replace string `hcl:"replace,optional"`
	}
	type hclConfig struct {
		Root       string    `hcl:"root,optional"`
		Name       string    `hcl:"name,optional"`
		Deprecated []string  `hcl:"deprecated,optional"`
		Uncertain  []string  `hcl:"uncertain,optional"`
		Rules      []hclRule `hcl:"rule,block"`
		Async      bool      `hcl:"async,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Root:       hclCfg.Root,
		Name:       hclCfg.Name,
		Deprecated: hclCfg.Deprecated,
		Uncertain:  hclCfg.Uncertain,
		Async:      hclCfg.Async,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, rules.Spec{
			Name:    r.Name,
			Pattern: r.Pattern,
			Replace: r.Replace,
		})
	}

	return cfg, nil
}
