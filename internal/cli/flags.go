package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// enumValue is a flag restricted to the values its parse function accepts.
// Bad input fails at flag parsing, before any service call.
type enumValue[T ~string] struct {
	value T
	set   bool
	parse func(string) (T, error)
	typ   string
}

var _ pflag.Value = (*enumValue[domain.LifeCycle])(nil)

func (e *enumValue[T]) String() string { return string(e.value) }
func (e *enumValue[T]) Type() string   { return e.typ }

func (e *enumValue[T]) Set(s string) error {
	v, err := e.parse(s)
	if err != nil {
		return err
	}
	e.value, e.set = v, true
	return nil
}

func lifeCycleFlag(fs *pflag.FlagSet, name string, def domain.LifeCycle, usage string) *enumValue[domain.LifeCycle] {
	v := &enumValue[domain.LifeCycle]{value: def, parse: domain.ParseLifeCycle, typ: "lifecycle"}
	fs.Var(v, name, usage+" ("+joinEnum(domain.LifeCycles)+")")
	return v
}

func deployStatusFlag(fs *pflag.FlagSet, name, usage string) *enumValue[domain.DeployStatus] {
	v := &enumValue[domain.DeployStatus]{parse: domain.ParseDeployStatus, typ: "status"}
	fs.Var(v, name, usage+" ("+joinEnum([]domain.DeployStatus{domain.DeployPlanning, domain.DeployDeployed, domain.DeployDenied})+")")
	return v
}

func versionBumpFlag(fs *pflag.FlagSet, name, usage string) *enumValue[domain.VersionBump] {
	v := &enumValue[domain.VersionBump]{parse: domain.ParseVersionBump, typ: "bump"}
	fs.Var(v, name, usage+" ("+joinEnum([]domain.VersionBump{domain.BumpMajor, domain.BumpMinor, domain.BumpPatch})+")")
	return v
}

func joinEnum[T ~string](vals []T) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}

// optionalString returns a pointer to val when the flag was given on the
// command line, nil otherwise.
func optionalString(fs *pflag.FlagSet, name, val string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &val
}
