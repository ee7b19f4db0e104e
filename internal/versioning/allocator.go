// Package versioning allocates and validates the semantic versions of a
// project's releases. A project's versions always form a gap-free tree rooted
// at 1.0.0: every version is reachable from its predecessor by bumping exactly
// one column by one and zeroing the columns below it.
package versioning

import (
	"fmt"
	"math"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// Allocate returns the version that follows the highest of existing under bump.
// With no existing versions the result is 1.0.0.
func Allocate(existing []domain.Version, bump domain.VersionBump) (domain.Version, error) {
	if _, err := domain.ParseVersionBump(string(bump)); err != nil {
		return domain.Version{}, err
	}
	if len(existing) == 0 {
		return domain.InitialVersion, nil
	}

	latest := existing[0]
	for _, v := range existing[1:] {
		if latest.Less(v) {
			latest = v
		}
	}

	column := &latest.Patch
	switch bump {
	case domain.BumpMajor:
		column = &latest.Major
	case domain.BumpMinor:
		column = &latest.Minor
	}
	if *column == math.MaxInt {
		return domain.Version{}, fmt.Errorf("%w: %s cannot be bumped %s", domain.ErrInvalidReleaseVersion, latest, bump)
	}

	switch bump {
	case domain.BumpMajor:
		return domain.Version{Major: latest.Major + 1}, nil
	case domain.BumpMinor:
		return domain.Version{Major: latest.Major, Minor: latest.Minor + 1}, nil
	default:
		return domain.Version{Major: latest.Major, Minor: latest.Minor, Patch: latest.Patch + 1}, nil
	}
}

// AllocateVersion is the string form of Allocate. bumpKind is MAJOR, MINOR or
// PATCH in any case.
func AllocateVersion(projectVersions []string, bumpKind string) (string, error) {
	bump, err := domain.ParseVersionBump(bumpKind)
	if err != nil {
		return "", err
	}
	existing, err := domain.ParseVersions(projectVersions)
	if err != nil {
		return "", err
	}
	next, err := Allocate(existing, bump)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}
