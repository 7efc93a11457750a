// Package security decides whether a generated command may be offered for execution.
package security

import (
	"strings"

	"github.com/doeshing/aish/internal/ports"
)

// denylist holds the substrings that mark a command as unsafe to execute.
// Matching is plain containment, so entries may over-match ("dd" also hits "git add")
// and under-match (any rewording of a destructive command slips through).
var denylist = []string{
	"rm -rf",        // recursive delete
	"mkfs",          // filesystem format
	"dd",            // raw disk write
	"> /dev/",       // redirection into device files
	"chmod -R",      // recursive permission change
	":(){ :|:& };:", // fork bomb
}

// Gate implements the SafetyGate port.
type Gate struct {
	patterns []string
}

// NewGate builds a gate over the fixed denylist.
func NewGate() *Gate {
	patterns := make([]string, 0, len(denylist))
	for _, entry := range denylist {
		patterns = append(patterns, strings.ToLower(entry))
	}
	return &Gate{patterns: patterns}
}

// IsDangerous implements ports.SafetyGate.
func (g *Gate) IsDangerous(command string) bool {
	_, matched := g.Match(command)
	return matched
}

// Match returns the first denylist entry contained in command, ignoring letter case.
func (g *Gate) Match(command string) (string, bool) {
	lowered := strings.ToLower(command)
	for _, pattern := range g.patterns {
		if strings.Contains(lowered, pattern) {
			return pattern, true
		}
	}
	return "", false
}

// Denylist returns a copy of the fixed denylist entries.
func Denylist() []string {
	return append([]string(nil), denylist...)
}

var _ ports.SafetyGate = (*Gate)(nil)
