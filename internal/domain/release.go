package domain

import (
	"fmt"
	"time"
)

type Release struct {
	ID           string
	ProjectID    string
	Title        string
	Content      string
	Summary      string
	Version      string
	DeployStatus DeployStatus
	DeployDate   *time.Time

	// Graph layout coordinates.
	X float64
	Y float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Release) IsDeployed() bool {
	return r.DeployStatus == DeployDeployed
}

// ParsedVersion returns the release version as a Version.
func (r *Release) ParsedVersion() (Version, error) {
	return ParseVersion(r.Version)
}

// RequireMutable rejects any edit other than coordinates or opinions once deployed.
func (r *Release) RequireMutable() error {
	if r.IsDeployed() {
		return fmt.Errorf("%w: release %s (%s)", ErrDeployedReleaseImmutable, r.ID, r.Version)
	}
	return nil
}

// TransitionTo is the only place deploy status changes.
//
//	PLANNING -> PLANNING | DEPLOYED | DENIED
//	DENIED   -> PLANNING | DEPLOYED | DENIED
//	DEPLOYED -> (terminal)
//
// Entering DEPLOYED stamps DeployDate.
func (r *Release) TransitionTo(target DeployStatus, now time.Time) error {
	if err := r.RequireMutable(); err != nil {
		return err
	}
	switch target {
	case DeployPlanning, DeployDenied:
		r.DeployStatus = target
	case DeployDeployed:
		r.DeployStatus = DeployDeployed
		r.DeployDate = &now
	default:
		return fmt.Errorf("unknown deploy status %q", target)
	}
	r.UpdatedAt = now
	return nil
}

// MoveTo updates the graph coordinates. Allowed in every status.
func (r *Release) MoveTo(x, y float64, now time.Time) {
	r.X = x
	r.Y = y
	r.UpdatedAt = now
}

// ReleasesBefore returns the releases whose version is strictly lower than v.
func ReleasesBefore(releases []*Release, v Version) ([]*Release, error) {
	return filterByVersion(releases, func(rv Version) bool { return rv.Less(v) })
}

// ReleasesAfter returns the releases whose version is strictly higher than v.
func ReleasesAfter(releases []*Release, v Version) ([]*Release, error) {
	return filterByVersion(releases, func(rv Version) bool { return v.Less(rv) })
}

func filterByVersion(releases []*Release, keep func(Version) bool) ([]*Release, error) {
	var out []*Release
	for _, r := range releases {
		rv, err := r.ParsedVersion()
		if err != nil {
			return nil, fmt.Errorf("release %s: %w", r.ID, err)
		}
		if keep(rv) {
			out = append(out, r)
		}
	}
	return out, nil
}

// AllDeployed reports whether every release in rs is DEPLOYED.
func AllDeployed(rs []*Release) bool {
	for _, r := range rs {
		if !r.IsDeployed() {
			return false
		}
	}
	return true
}

// AnyDeployed reports whether at least one release in rs is DEPLOYED.
func AnyDeployed(rs []*Release) bool {
	for _, r := range rs {
		if r.IsDeployed() {
			return true
		}
	}
	return false
}

// Opinion is a free-text comment a member leaves on a release.
type Opinion struct {
	ID        string
	ReleaseID string
	MemberID  string
	Body      string
	CreatedAt time.Time
}
