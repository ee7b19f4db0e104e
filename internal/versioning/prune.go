package versioning

import (
	"errors"
	"fmt"

	"github.com/kea-momentum/hackathon-backend-springboot-sub000/internal/domain"
)

// CheckPrunable reports whether target can be removed from all without
// leaving a hole in the version tree. Only a trailing rung can go: removing
// 1.1.0 from {1.0.0, 1.1.0, 1.1.1} would leave 1.1.1 without its x.y.0 start.
// The root 1.0.0 is removable only when it is the last release standing.
func CheckPrunable(target domain.Version, all []domain.Version) error {
	remaining := without(all, target)
	if len(remaining) == 0 {
		return nil
	}
	if target.IsInitial() {
		return fmt.Errorf("%w: %s is the root of %d other release(s)", domain.ErrReleaseNotPrunable, target, len(remaining))
	}
	if err := ValidateChain(remaining); err != nil {
		if errors.Is(err, domain.ErrInvalidReleaseVersion) {
			return fmt.Errorf("%w: removing %s: %v", domain.ErrReleaseNotPrunable, target, err)
		}
		return err
	}
	return nil
}
