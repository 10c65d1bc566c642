package user

import "fmt"

// Tier is the account category of a user.
type Tier int

const (
	TierNormal Tier = iota
	TierSuperUser
	TierPremium
)

var tierNames = [...]string{
	TierNormal:    "Normal",
	TierSuperUser: "SuperUser",
	TierPremium:   "Premium",
}

// String returns the symbolic name used on the wire and in the store.
func (t Tier) String() string {
	if t < TierNormal || t > TierPremium {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier converts a symbolic tier name into a Tier. Matching is case-sensitive.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), nil
		}
	}
	return TierNormal, fmt.Errorf("unknown tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if t < TierNormal || t > TierPremium {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
