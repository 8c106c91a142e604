//go:build governance

package core_test

import (
	"go/types"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that types in pkg/core are genuinely
// shared across multiple packages. Single-use types should be moved to their
// sole consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	coreDefs := make(map[types.Object]string)
	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			scope := p.Types.Scope()
			for _, name := range scope.Names() {
				if obj := scope.Lookup(name); obj.Exported() {
					coreDefs[obj] = name
				}
			}
			break
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// CoreName -> set of using packages
	usageMap := make(map[string]map[string]bool)
	for _, name := range coreDefs {
		usageMap[name] = make(map[string]bool)
	}

	base := modulePath + "/"
	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || strings.HasSuffix(p.PkgPath, "_test") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := coreDefs[obj]; ok {
				usageMap[name][strings.TrimPrefix(p.PkgPath, base)] = true
			}
		}
	}

	for name, users := range usageMap {
		if isCohesionAllowlisted(name) {
			continue
		}
		switch len(users) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", name)
		case 1:
			var user string
			for k := range users {
				user = k
			}
			t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
				"   Fix: Move it from pkg/core to %s.", name, user, user)
		}
	}
}

// isCohesionAllowlisted returns true for names allowed a single user.
func isCohesionAllowlisted(name string) bool {
	allowlist := map[string]bool{
		"DialectConfig":    true, // extension point, built by pkg/dialect only
		"IdentifierConfig": true,
		"Point":            true, // geometry values enter through pkg/expr
	}
	return allowlist[name] || strings.HasPrefix(name, "Code") || strings.HasPrefix(name, "Paging") ||
		strings.HasPrefix(name, "Placeholder") || strings.HasPrefix(name, "Normalize")
}

// =============================================================================
// PURITY TEST - No re-export of core taxonomy from other packages
// =============================================================================

// TestGovernance_NoErrorReexports ensures the error taxonomy is only
// declared in pkg/core, so errors.Is against core sentinels always works.
func TestGovernance_NoErrorReexports(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	forbidden := map[string]bool{
		"ConfigurationError": true, "GraphError": true, "IdentityError": true,
		"DialectUnsupportedError": true, "SemanticType": true,
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 || pkg.PkgPath == modulePath+"/pkg/core" {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			typeName, ok := obj.(*types.TypeName)
			if !ok || !obj.Exported() || !forbidden[name] {
				continue
			}
			if typeName.IsAlias() {
				t.Errorf("PURITY VIOLATION: Package '%s' re-exports '%s'.\n"+
					"   Fix: Remove the alias. Consumers should use core.%s directly.",
					strings.TrimPrefix(pkg.PkgPath, modulePath+"/"), name, name)
			}
		}
	}
}
