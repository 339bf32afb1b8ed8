package channel

import (
	"fmt"

	"github.com/gobwas/glob"
)

// OriginPolicy decides which sender origins are accepted.
// A nil or empty policy accepts every origin.
type OriginPolicy struct {
	patterns []glob.Glob
}

// NewOriginPolicy compiles glob patterns such as "https://*.example.com".
func NewOriginPolicy(patterns []string) (*OriginPolicy, error) {
	p := &OriginPolicy{}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid origin pattern %q: %w", pattern, err)
		}

		p.patterns = append(p.patterns, g)
	}

	return p, nil
}

// Allow reports whether messages from origin are accepted.
func (p *OriginPolicy) Allow(origin string) bool {
	if p == nil || len(p.patterns) == 0 {
		return true
	}

	for _, g := range p.patterns {
		if g.Match(origin) {
			return true
		}
	}

	return false
}

// Restricted reports whether the policy filters anything.
func (p *OriginPolicy) Restricted() bool {
	return p != nil && len(p.patterns) > 0
}
