package systemd

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/alessio/shellescape"
	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// ExecRequest describes the ExecStart command of a Node.js service.
type ExecRequest struct {
	JSPath string
	// NodeVersion is a semver range. When set, the script is run through nvm.
	NodeVersion string
	// Shell defaults to bash.
	Shell string
	Args  []string
	// PipeTo receives both stdout and stderr when set.
	PipeTo string
}

// GenerateExecCommand returns a shell-escaped command line for ExecStart.
func (s *Systemd) GenerateExecCommand(req ExecRequest) (string, error) {
	nodeExpr := "node"
	if req.NodeVersion != "" {
		nvmDir := s.getenv("NVM_DIR")
		if nvmDir == "" {
			return "", domain.ErrNvmNotInstalled
		}
		version, err := NodeVersionFromRange(req.NodeVersion)
		if err != nil {
			return "", err
		}
		// systemd does not see NVM_DIR, so the script path is inlined.
		nvmScript, err := filepath.Abs(filepath.Join(nvmDir, "nvm.sh"))
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve nvm.sh")
		}
		nodeExpr = ". " + shellescape.Quote(nvmScript) + "; nvm run " + shellescape.Quote(version)
	}

	command := nodeExpr + " " + shellescape.QuoteCommand(append([]string{req.JSPath}, req.Args...))
	if req.PipeTo != "" {
		command += " > " + shellescape.Quote(req.PipeTo) + " 2>&1"
	}

	shell := req.Shell
	if shell == "" {
		shell = "bash"
	}
	return shellescape.QuoteCommand([]string{"/usr/bin/env", shell, "-c", command}), nil
}

var (
	hyphenRange   = regexp.MustCompile(`^\s*(\S+)\s+-\s+(\S+)\s*$`)
	operatorToken = regexp.MustCompile(`^(>=|<=|>|<|=|\^|~>|~)?\s*v?(.*)$`)
	plainVersion  = regexp.MustCompile(`^(\d+\.?)+$`)
)

// NodeVersionFromRange picks the most modern version a range includes by an inclusive bound.
// Only bounds that admit their own version count: >=, <= with a full version, exact versions,
// and the lower ends of caret, tilde, x- and hyphen ranges. Trailing .0 portions are dropped.
func NodeVersionFromRange(rangeExpr string) (string, error) {
	if _, err := semver.NewConstraint(rangeExpr); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrNodeVersionUndeducible, err.Error()), "range", rangeExpr)
	}

	var best *semver.Version
	consider := func(v *semver.Version) {
		if v != nil && (best == nil || v.GreaterThan(best)) {
			best = v
		}
	}

	for _, set := range strings.Split(rangeExpr, "||") {
		if m := hyphenRange.FindStringSubmatch(set); m != nil {
			consider(inclusiveBound(">=", m[1]))
			consider(inclusiveBound("<=", m[2]))
			continue
		}
		for _, token := range joinOperators(strings.Fields(set)) {
			m := operatorToken.FindStringSubmatch(token)
			consider(inclusiveBound(m[1], m[2]))
		}
	}

	if best == nil {
		return "", zerr.With(zerr.Wrap(domain.ErrNodeVersionUndeducible, "no inclusive bound"), "range", rangeExpr)
	}
	return dropTrailingZeros(best.String()), nil
}

// joinOperators merges a bare operator with the version that follows it, as in ">= 18".
func joinOperators(fields []string) []string {
	var tokens []string
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Trim(f, "<>=^~") == "" && i+1 < len(fields) {
			f += fields[i+1]
			i++
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func inclusiveBound(op, version string) *semver.Version {
	parts, partial := versionParts(version)
	if parts == "" {
		return nil
	}
	switch op {
	case ">", "<":
		return nil
	case "<=":
		if partial {
			return nil
		}
	}
	v, err := semver.NewVersion(parts)
	if err != nil {
		return nil
	}
	return v
}

// versionParts strips wildcard components. partial reports whether fewer than three numeric parts remain.
func versionParts(version string) (string, bool) {
	core, suffix, _ := strings.Cut(version, "-")
	var parts []string
	for _, p := range strings.Split(core, ".") {
		if p == "x" || p == "X" || p == "*" || p == "" {
			break
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "", true
	}
	result := strings.Join(parts, ".")
	if len(parts) == 3 && suffix != "" {
		result += "-" + suffix
	}
	return result, len(parts) < 3
}

func dropTrailingZeros(version string) string {
	for plainVersion.MatchString(version) && strings.HasSuffix(version, ".0") {
		version = strings.TrimSuffix(version, ".0")
	}
	return version
}
