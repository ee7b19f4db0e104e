package versioning

import (
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// ValidateChain checks that versions, once sorted, form a gap-free tree:
//
//   - the lowest version is 1.0.0;
//   - consecutive MAJOR values differ by 0 or 1, and a MAJOR step starts at x.0.0;
//   - within one MAJOR, MINOR differs by 0 or 1, and a MINOR step starts at x.y.0;
//   - within one MAJOR.MINOR, PATCH differs by 0 or 1.
//
// The input slice is not modified.
func ValidateChain(versions []domain.Version) error {
	if len(versions) == 0 {
		return nil
	}
	sorted := make([]domain.Version, len(versions))
	copy(sorted, versions)
	domain.SortVersions(sorted)

	if !sorted[0].IsInitial() {
		return fmt.Errorf("%w: lowest version is %s, want %s", domain.ErrInvalidReleaseVersion, sorted[0], domain.InitialVersion)
	}
	for i := 1; i < len(sorted); i++ {
		if err := checkStep(sorted[i-1], sorted[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkStep validates one rung of the ladder, column by column from MAJOR down.
func checkStep(prev, cur domain.Version) error {
	bad := func(reason string) error {
		return fmt.Errorf("%w: %s cannot follow %s (%s)", domain.ErrInvalidReleaseVersion, cur, prev, reason)
	}

	switch cur.Major - prev.Major {
	case 0:
	case 1:
		if cur.Minor != 0 || cur.Patch != 0 {
			return bad("a new major version must start at .0.0")
		}
		return nil
	default:
		return bad("major version skipped")
	}

	switch cur.Minor - prev.Minor {
	case 0:
	case 1:
		if cur.Patch != 0 {
			return bad("a new minor version must start at .0")
		}
		return nil
	default:
		return bad("minor version skipped")
	}

	switch cur.Patch - prev.Patch {
	case 0, 1:
		return nil
	default:
		return bad("patch version skipped")
	}
}

// ValidateEdit checks that replacing current with proposed keeps the project's
// version set gap-free. others holds every other release's version.
func ValidateEdit(current, proposed domain.Version, others []domain.Version) error {
	if current.IsInitial() && proposed != current {
		return fmt.Errorf("%w: cannot change to %s", domain.ErrInitialVersionImmutable, proposed)
	}
	for _, o := range others {
		if o == proposed {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateVersion, proposed)
		}
	}
	candidate := make([]domain.Version, 0, len(others)+1)
	candidate = append(candidate, others...)
	candidate = append(candidate, proposed)
	return ValidateChain(candidate)
}

// ValidateVersionEdit is the string form of ValidateEdit. allVersionsInProject
// includes current itself; one occurrence of it is excluded before checking.
func ValidateVersionEdit(current, proposed string, allVersionsInProject []string) error {
	cur, err := domain.ParseVersion(current)
	if err != nil {
		return err
	}
	next, err := domain.ParseVersion(proposed)
	if err != nil {
		return err
	}
	all, err := domain.ParseVersions(allVersionsInProject)
	if err != nil {
		return err
	}
	return ValidateEdit(cur, next, without(all, cur))
}

// without returns vs minus the first occurrence of v.
func without(vs []domain.Version, v domain.Version) []domain.Version {
	out := make([]domain.Version, 0, len(vs))
	removed := false
	for _, x := range vs {
		if !removed && x == v {
			removed = true
			continue
		}
		out = append(out, x)
	}
	return out
}
