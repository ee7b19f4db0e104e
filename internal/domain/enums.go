package domain

import (
	"fmt"
	"strings"
)

type Position string

const (
	PositionLeader Position = "LEADER"
	PositionMember Position = "MEMBER"
)

type DeployStatus string

const (
	DeployPlanning DeployStatus = "PLANNING"
	DeployDeployed DeployStatus = "DEPLOYED"
	DeployDenied   DeployStatus = "DENIED"
)

// ParseDeployStatus accepts the status name in any case.
func ParseDeployStatus(s string) (DeployStatus, error) {
	switch DeployStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DeployPlanning:
		return DeployPlanning, nil
	case DeployDeployed:
		return DeployDeployed, nil
	case DeployDenied:
		return DeployDenied, nil
	}
	return "", fmt.Errorf("unknown deploy status %q", s)
}

type ApprovalValue string

const (
	ApprovalPending ApprovalValue = "PENDING"
	ApprovalYes     ApprovalValue = "YES"
	ApprovalNo      ApprovalValue = "NO"
)

// WireCode returns the single-letter form used at the request boundary.
func (v ApprovalValue) WireCode() string {
	switch v {
	case ApprovalYes:
		return "Y"
	case ApprovalNo:
		return "N"
	default:
		return "P"
	}
}

// ParseApprovalValue accepts P|Y|N or PENDING|YES|NO, case-insensitively.
func ParseApprovalValue(s string) (ApprovalValue, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P", "PENDING":
		return ApprovalPending, nil
	case "Y", "YES":
		return ApprovalYes, nil
	case "N", "NO":
		return ApprovalNo, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidApprovalValue, s)
}

type LifeCycle string

const (
	LifeCycleNotStarted LifeCycle = "NOT_STARTED"
	LifeCycleInProgress LifeCycle = "IN_PROGRESS"
	LifeCycleDone       LifeCycle = "DONE"
)

// LifeCycles lists the kanban columns in display order.
var LifeCycles = []LifeCycle{LifeCycleNotStarted, LifeCycleInProgress, LifeCycleDone}

func (lc LifeCycle) Valid() bool {
	switch lc {
	case LifeCycleNotStarted, LifeCycleInProgress, LifeCycleDone:
		return true
	}
	return false
}

// ParseLifeCycle accepts NOT_STARTED|IN_PROGRESS|DONE in any case.
func ParseLifeCycle(s string) (LifeCycle, error) {
	lc := LifeCycle(strings.ToUpper(strings.TrimSpace(s)))
	if !lc.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLifeCycle, s)
	}
	return lc, nil
}

type VersionBump string

const (
	BumpMajor VersionBump = "MAJOR"
	BumpMinor VersionBump = "MINOR"
	BumpPatch VersionBump = "PATCH"
)

// ParseVersionBump accepts MAJOR|MINOR|PATCH in any case.
func ParseVersionBump(s string) (VersionBump, error) {
	switch b := VersionBump(strings.ToUpper(strings.TrimSpace(s))); b {
	case BumpMajor, BumpMinor, BumpPatch:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVersionBumpKind, s)
}
