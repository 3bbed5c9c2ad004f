package commands

import (
	"os/exec"
	"strings"
)

// resolveVersion prefers the version stamped at build time and falls back
// to git describe for development builds.
func resolveVersion(version string, describe func() (string, error)) string {
	if version != "" && version != "dev" {
		return version
	}
	described, err := describe()
	if err != nil || strings.TrimSpace(described) == "" {
		return "dev"
	}
	return strings.TrimSpace(described)
}

func gitDescribe() (string, error) {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
