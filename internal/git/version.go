package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinCurrentBranchVersion is the first git release with `branch --show-current`.
var MinCurrentBranchVersion = Version{Major: 2, Minor: 22}

var versionRegex = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Version git 版本号，只比较 major.minor.patch
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v >= min.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	if v.Minor != min.Minor {
		return v.Minor > min.Minor
	}
	return v.Patch >= min.Patch
}

// ParseVersion 解析 `git version` 的输出，例如
// "git version 2.39.2 (Apple Git-143)" 或 "git version 2.45.1.windows.1"
func ParseVersion(output string) (Version, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(output), "git version"))
	if s == "" {
		return Version{}, fmt.Errorf("empty version string")
	}

	m := versionRegex.FindStringSubmatch(s)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version format: %s", s)
	}

	var v Version
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, nil
}

// GitVersion runs `git version` through runner.
func GitVersion(ctx context.Context, runner Runner, repo string) (Version, error) {
	res, err := runner.Run(ctx, repo, "version")
	if err != nil {
		return Version{}, err
	}
	if !res.Success() {
		return Version{}, fmt.Errorf("git version exited with status %d", res.ExitCode)
	}
	return ParseVersion(res.Output)
}
