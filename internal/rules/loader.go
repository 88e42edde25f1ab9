// SPDX-License-Identifier: Apache-2.0

package rules

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

//go:embed defaults.yaml
var defaultPackYAML []byte

//go:embed schema.cue
var packSchemaCUE []byte

var defaultRuleset = sync.OnceValue(func() *Ruleset {
	rs, err := parsePack(defaultPackYAML)
	if err != nil {
		// The embedded pack is covered by tests; reaching this is a build defect.
		panic(fmt.Sprintf("embedded rule pack is invalid: %v", err))
	}
	return rs
})

// Default returns the built-in rule pack, compiled once.
func Default() *Ruleset {
	return defaultRuleset()
}

// LoadPack reads a rule pack file, checks it against the pack schema and
// compiles it. Any schema or pattern problem is reported at load time.
func LoadPack(fsys afero.Fs, path string) (*Ruleset, error) {
	raw, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	rs, err := parsePack(raw)
	if err != nil {
		return nil, fmt.Errorf("rule pack %s: %w", path, err)
	}
	return rs, nil
}

func parsePack(raw []byte) (*Ruleset, error) {
	var pack Pack
	if err := yaml.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validatePack(pack); err != nil {
		return nil, err
	}
	return pack.Compile()
}

// validatePack unifies the pack with the #Pack definition and demands a
// fully concrete result.
func validatePack(pack Pack) error {
	cctx := cuecontext.New()
	schema := cctx.CompileBytes(packSchemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile pack schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Pack"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup pack schema: %w", err)
	}
	val := cctx.Encode(pack)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode pack: %w", err)
	}
	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
