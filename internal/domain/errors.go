package domain

import "errors"

// Version errors.
var (
	ErrInvalidVersionBumpKind  = errors.New("invalid version bump kind")
	ErrDuplicateVersion        = errors.New("version already used by another release")
	ErrInitialVersionImmutable = errors.New("initial release version 1.0.0 cannot be changed")
	ErrInvalidReleaseVersion   = errors.New("invalid release version")
)

// Release lifecycle errors.
var (
	ErrDeployedReleaseImmutable    = errors.New("deployed release cannot be modified")
	ErrEarlierReleaseNotDeployed   = errors.New("an earlier release is not deployed yet")
	ErrLaterReleaseAlreadyDeployed = errors.New("a later release is already deployed")
	ErrReleaseNotPrunable          = errors.New("deleting this release would leave a version gap")
)

// Issue linkage and ordering errors.
var (
	ErrIssueAlreadyLinked   = errors.New("issue is already linked to a release")
	ErrIssueNotDone         = errors.New("only DONE issues can be linked to a release")
	ErrLinkedIssueImmutable = errors.New("issue linked to a release cannot change lifecycle")
	ErrInvalidLifeCycle     = errors.New("invalid issue lifecycle")
	ErrInvalidOrderIndex    = errors.New("invalid order index")
	ErrEmptyTitle           = errors.New("issue title is required")
)

// Approval errors.
var (
	ErrReleaseAlreadyDeployed  = errors.New("release is already deployed")
	ErrUnauthorizedRelease     = errors.New("release does not belong to the member's project")
	ErrDisapprovedMemberExists = errors.New("not every member approved the release")
	ErrInvalidApprovalValue    = errors.New("invalid approval value")
)

// Membership and opinion errors.
var (
	ErrNotProjectLeader   = errors.New("only the project leader can do this")
	ErrMemberExists       = errors.New("user is already a project member")
	ErrLeaderNotRemovable = errors.New("project leader cannot be removed")
	ErrOpinionNotOwned    = errors.New("opinion belongs to another member")
	ErrEmptyOpinion       = errors.New("opinion body is empty")
	ErrEmptyUserID        = errors.New("member user id is required")
)

// Lookup errors.
var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrReleaseNotFound  = errors.New("release not found")
	ErrIssueNotFound    = errors.New("issue not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrApprovalNotFound = errors.New("approval not found")
	ErrOpinionNotFound  = errors.New("opinion not found")
)

var validationErrors = []error{
	ErrInvalidVersionBumpKind, ErrDuplicateVersion, ErrInitialVersionImmutable, ErrInvalidReleaseVersion,
	ErrDeployedReleaseImmutable, ErrEarlierReleaseNotDeployed, ErrLaterReleaseAlreadyDeployed, ErrReleaseNotPrunable,
	ErrIssueAlreadyLinked, ErrIssueNotDone, ErrLinkedIssueImmutable, ErrInvalidLifeCycle, ErrInvalidOrderIndex, ErrEmptyTitle,
	ErrReleaseAlreadyDeployed, ErrUnauthorizedRelease, ErrDisapprovedMemberExists, ErrInvalidApprovalValue,
	ErrNotProjectLeader, ErrMemberExists, ErrLeaderNotRemovable, ErrOpinionNotOwned, ErrEmptyOpinion, ErrEmptyUserID,
	ErrProjectNotFound, ErrReleaseNotFound, ErrIssueNotFound, ErrMemberNotFound, ErrApprovalNotFound, ErrOpinionNotFound,
}

// IsValidationError reports whether err is a request-level failure rather than
// an infrastructure error from a store or transport.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
