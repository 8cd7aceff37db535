package rank

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Policy configures which locations display verified entries only.
type Policy struct {
	// TrustFirstLocations always prefer verified-only display.
	TrustFirstLocations []string `yaml:"trust_first_locations" mapstructure:"trust_first_locations"`
	// MinVerified is the verified count at which any location goes trust-first.
	MinVerified int `yaml:"min_verified" mapstructure:"min_verified"`
	// MinListed is the smallest listed-only set worth showing on its own.
	MinListed int `yaml:"min_listed" mapstructure:"min_listed"`
}

// DefaultPolicy returns the stock thresholds with no overrides.
func DefaultPolicy() Policy {
	return Policy{MinVerified: 3, MinListed: 2}
}

// withDefaults fills zero thresholds from DefaultPolicy.
func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.MinVerified <= 0 {
		p.MinVerified = def.MinVerified
	}
	if p.MinListed <= 0 {
		p.MinListed = def.MinListed
	}
	return p
}

// LoadPolicy reads a policy from a YAML file with a top-level "ranking" key:
//
//	ranking:
//	  trust_first_locations: [springfield, shelbyville]
//	  min_verified: 3
//	  min_listed: 2
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrapf(err, "rank: read policy %s", path)
	}

	var wrapper struct {
		Ranking Policy `yaml:"ranking"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Policy{}, eris.Wrap(err, "rank: parse policy")
	}
	return wrapper.Ranking.withDefaults(), nil
}
