package git

import "strings"

// FailureKind classifies why a network-facing git command (push, fetch)
// failed, based on the text git printed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureUnknown
	FailureAuth
	FailureNetwork
	FailureNonFastForward
	FailureNoUpstream
)

// String returns a string representation of the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureAuth:
		return "auth"
	case FailureNetwork:
		return "network"
	case FailureNonFastForward:
		return "non_fast_forward"
	case FailureNoUpstream:
		return "no_upstream"
	default:
		return "unknown"
	}
}

// Hint returns a one-line suggestion for the operator, or "" when none applies.
func (k FailureKind) Hint() string {
	switch k {
	case FailureAuth:
		return "Authentication failed: check your credentials or SSH key for the remote"
	case FailureNetwork:
		return "The remote could not be reached: check your network connection"
	case FailureNonFastForward:
		return "The remote has commits you do not have: resolve the rebase and run again"
	case FailureNoUpstream:
		return "The remote or branch does not exist: check --remote and --branch"
	default:
		return ""
	}
}

// patternMatcher checks if a string contains any of a list of lowercase patterns.
type patternMatcher []string

func (m patternMatcher) matches(lower string) bool {
	for _, pattern := range m {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

var (
	authPatterns = patternMatcher{
		"authentication failed",
		"could not read username",
		"permission denied",
		"invalid username or password",
		"access denied",
		"could not read from remote repository",
	}

	networkPatterns = patternMatcher{
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"operation timed out",
		"unable to access",
		"no route to host",
		"failed to connect",
	}

	nonFastForwardPatterns = patternMatcher{
		"non-fast-forward",
		"[rejected]",
		"fetch first",
		"updates were rejected",
	}

	noUpstreamPatterns = patternMatcher{
		"does not appear to be a git repository",
		"src refspec",
		"does not match any",
		"no such remote",
	}
)

// ClassifyFailure maps git's output for a failed command to a FailureKind.
// An empty output yields FailureUnknown. The classification is advisory only.
func ClassifyFailure(output string) FailureKind {
	lower := strings.ToLower(output)
	switch {
	case nonFastForwardPatterns.matches(lower):
		return FailureNonFastForward
	case noUpstreamPatterns.matches(lower):
		return FailureNoUpstream
	case networkPatterns.matches(lower):
		return FailureNetwork
	case authPatterns.matches(lower):
		return FailureAuth
	default:
		return FailureUnknown
	}
}
