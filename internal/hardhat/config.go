// Package hardhat edits the import section of a Hardhat configuration file.
package hardhat

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DefaultConfig is the configuration file at the project root.
const DefaultConfig = "hardhat.config.ts"

// Anchor is the import new plugin imports are placed after.
const Anchor = "hardhat-exposed"

type importStatement struct {
	source string
	end    uint32
}

// Config is a parsed Hardhat configuration. Only top-level import statements
// are tracked, everything else is kept byte for byte.
type Config struct {
	src     []byte
	imports []importStatement

	// last is the module most recently added, so consecutive additions keep
	// their order after the anchor.
	last string
}

// Parse parses src as TypeScript and collects its import statements.
func Parse(ctx context.Context, src []byte) (*Config, error) {
	c := &Config{}
	if err := c.parse(ctx, src); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parse(ctx context.Context, src []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(typescript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("failed to parse hardhat config: %w", err)
	}
	defer tree.Close()

	var imports []importStatement
	root := tree.RootNode()
	for i := 0; i < int(root.ChildCount()); i++ {
		n := root.Child(i)
		if n.Type() != "import_statement" {
			continue
		}
		source := n.ChildByFieldName("source")
		if source == nil {
			continue
		}
		imports = append(imports, importStatement{
			source: strings.Trim(source.Content(src), "\"'"),
			end:    n.EndByte(),
		})
	}

	c.src = src
	c.imports = imports
	return nil
}

// Imports lists the module specifiers imported by the configuration, in
// source order.
func (c *Config) Imports() []string {
	imports := make([]string, 0, len(c.imports))
	for _, imp := range c.imports {
		imports = append(imports, imp.source)
	}
	return imports
}

func (c *Config) HasImport(pkg string) bool {
	_, ok := c.find(pkg)
	return ok
}

func (c *Config) find(pkg string) (importStatement, bool) {
	for _, imp := range c.imports {
		if imp.source == pkg {
			return imp, true
		}
	}
	return importStatement{}, false
}

// AddImport inserts `import "pkg";` directly after the import of anchor, or
// after the previously added import, or at the top of the file when anchor is
// not imported. It reports false when pkg is already imported.
func (c *Config) AddImport(ctx context.Context, pkg, anchor string) (bool, error) {
	if c.HasImport(pkg) {
		return false, nil
	}

	stmt := fmt.Sprintf("import %q;", pkg)

	after := anchor
	if c.last != "" {
		after = c.last
	}

	out := make([]byte, 0, len(c.src)+len(stmt)+1)
	if imp, ok := c.find(after); ok {
		out = append(out, c.src[:imp.end]...)
		out = append(out, '\n')
		out = append(out, stmt...)
		out = append(out, c.src[imp.end:]...)
	} else {
		out = append(out, stmt...)
		out = append(out, '\n')
		out = append(out, c.src...)
	}

	if err := c.parse(ctx, out); err != nil {
		return false, err
	}
	c.last = pkg

	return true, nil
}

func (c *Config) String() string {
	return string(c.src)
}

// AddImports adds the imports for pkgs to the configuration file at path and
// returns the ones that were missing. The file is only rewritten when
// something was added.
func AddImports(ctx context.Context, path string, pkgs []string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(ctx, data)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, pkg := range pkgs {
		ok, err := cfg.AddImport(ctx, pkg, Anchor)
		if err != nil {
			return nil, err
		}
		if ok {
			added = append(added, pkg)
		}
	}

	if len(added) == 0 {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, cfg.src, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return added, nil
}
