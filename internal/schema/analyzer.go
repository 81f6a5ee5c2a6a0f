package schema

import (
	"go/types"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"span-mapper/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// TagKey is the struct tag that renames a feature ("-" drops the field).
const TagKey = "span"

// Analyzer derives annotation types from Go struct declarations.
//
// Every exported struct type of the loaded packages becomes a type. The
// first embedded struct from a loaded package is its parent. Exported fields
// with a string, integer, float or boolean underlying type become features;
// other fields are ignored.
type Analyzer struct {
	ts       *TypeSystem
	declared map[*types.TypeName]*TypeInfo
	visiting map[*types.TypeName]bool
	pkgs     map[string]bool
}

// NewAnalyzer creates an Analyzer that adds types to ts (a fresh type
// system when ts is nil).
func NewAnalyzer(ts *TypeSystem) *Analyzer {
	if ts == nil {
		ts = NewTypeSystem()
	}

	return &Analyzer{
		ts:       ts,
		declared: make(map[*types.TypeName]*TypeInfo),
		visiting: make(map[*types.TypeName]bool),
		pkgs:     make(map[string]bool),
	}
}

// TypeSystem returns the type system being built.
func (a *Analyzer) TypeSystem() *TypeSystem {
	return a.ts
}

// LoadPackages loads the specified packages and declares their struct types.
// Patterns are standard Go package patterns (e.g., "./typesystem/geo").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeSystem, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "package errors")
	}

	for _, pkg := range pkgs {
		a.pkgs[pkg.PkgPath] = true
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg.Types); err != nil {
			return nil, errors.Wrapf(err, "failed to process package %s", pkg.PkgPath)
		}
	}

	return a.ts, nil
}

// processPackage declares every exported struct type of pkg.
func (a *Analyzer) processPackage(pkg *types.Package) error {
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		if _, ok := typeName.Type().Underlying().(*types.Struct); !ok {
			continue
		}

		if _, err := a.declare(typeName); err != nil {
			return err
		}
	}

	return nil
}

// Namespace returns the namespace used for types of a Go package path:
// "span-mapper/typesystem/geo" becomes "span-mapper.typesystem.geo".
func Namespace(pkgPath string) string {
	return strings.ReplaceAll(pkgPath, "/", ".")
}

// declare registers obj (and, first, its parent).
func (a *Analyzer) declare(obj *types.TypeName) (*TypeInfo, error) {
	if t, ok := a.declared[obj]; ok {
		return t, nil
	}

	if a.visiting[obj] {
		return nil, errors.Newf("embedding cycle through %s.%s", obj.Pkg().Path(), obj.Name())
	}

	a.visiting[obj] = true
	defer delete(a.visiting, obj)

	st := obj.Type().Underlying().(*types.Struct)

	var parent *TypeInfo

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}

		embedded := a.embeddedStruct(field.Type())
		if embedded == nil {
			continue
		}

		p, err := a.declare(embedded)
		if err != nil {
			return nil, err
		}

		parent = p

		break
	}

	t, err := a.ts.AddType(TypeID{Namespace: Namespace(obj.Pkg().Path()), Name: obj.Name()}, parent)
	if err != nil {
		return nil, err
	}

	a.declared[obj] = t

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if field.Embedded() || !field.Exported() {
			continue
		}

		rng := kindOf(field.Type())
		if rng == KindUnknown {
			continue
		}

		name, ok := featureName(field.Name(), reflect.StructTag(st.Tag(i)))
		if !ok {
			continue
		}

		if _, err := a.ts.AddFeature(t, name, rng); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// embeddedStruct returns the named struct behind an embedded field when it
// belongs to a loaded package.
func (a *Analyzer) embeddedStruct(t types.Type) *types.TypeName {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}

	named, ok := t.(*types.Named)
	if !ok {
		return nil
	}

	obj := named.Obj()
	if obj.Pkg() == nil || !a.pkgs[obj.Pkg().Path()] || !obj.Exported() {
		return nil
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}

	return obj
}

// kindOf maps a field type to a feature range.
func kindOf(t types.Type) Kind {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return KindUnknown
	}

	info := basic.Info()

	switch {
	case info&types.IsString != 0:
		return KindString
	case info&types.IsInteger != 0:
		return KindInteger
	case info&types.IsFloat != 0:
		return KindFloat
	case info&types.IsBoolean != 0:
		return KindBoolean
	default:
		return KindUnknown
	}
}

// featureName returns the feature name for a struct field, honoring the
// span tag. ok is false when the tag is "-".
func featureName(field string, tag reflect.StructTag) (string, bool) {
	v := tag.Get(TagKey)
	if v == "-" {
		return "", false
	}

	if name, _, _ := strings.Cut(v, ","); name != "" {
		return name, true
	}

	return common.LowerFirst(field), true
}
