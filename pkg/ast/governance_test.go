//go:build governance

package ast_test

import (
	"go/types"
	"slices"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/avenger-vis/avenger"

// =============================================================================
// LAYERING TEST - public packages never reach into internal/ or the CLI
// =============================================================================

// TestGovernance_Layering checks the import direction token <- ast <- parser
// and keeps pkg/ free of internal/ imports so the parser stays embeddable.
func TestGovernance_Layering(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	allowed := map[string][]string{
		modulePath + "/pkg/token":  nil,
		modulePath + "/pkg/ast":    {modulePath + "/pkg/token"},
		modulePath + "/pkg/parser": {modulePath + "/pkg/token", modulePath + "/pkg/ast"},
	}

	seen := 0
	for _, p := range pkgs {
		want, governed := allowed[p.PkgPath]
		if !governed {
			continue
		}
		seen++
		for path := range p.Imports {
			if !strings.HasPrefix(path, modulePath+"/") {
				continue
			}
			if !slices.Contains(want, path) {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'.\n"+
					"   Fix: move the shared code down into pkg/ or drop the import.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"),
					strings.TrimPrefix(path, modulePath+"/"))
			}
		}
	}
	if seen != len(allowed) {
		t.Fatalf("found %d of %d governed packages", seen, len(allowed))
	}
}

// =============================================================================
// PURITY TEST - the parser does not re-export AST types
// =============================================================================

// TestGovernance_NoTypeAliasReexports ensures consumers import node types
// from pkg/ast only.
func TestGovernance_NoTypeAliasReexports(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/ast" || p.Types == nil {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || !tn.IsAlias() {
				continue
			}
			named, ok := types.Unalias(tn.Type()).(*types.Named)
			if !ok || named.Obj().Pkg() == nil {
				continue
			}
			if named.Obj().Pkg().Path() == modulePath+"/pkg/ast" {
				t.Errorf("PURITY VIOLATION: '%s' re-exports ast.%s as '%s'.\n"+
					"   Fix: remove the alias and use ast.%s directly.",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"), named.Obj().Name(), name, named.Obj().Name())
			}
		}
	}
}
