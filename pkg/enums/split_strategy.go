package enums

import "fmt"

// SplitStrategy selects how the delivery fee is apportioned across lines.
type SplitStrategy string

const (
	SplitStrategyEven     SplitStrategy = "even"
	SplitStrategyWeighted SplitStrategy = "weighted"
)

var validSplitStrategies = []SplitStrategy{
	SplitStrategyEven,
	SplitStrategyWeighted,
}

// String implements fmt.Stringer.
func (s SplitStrategy) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SplitStrategy.
func (s SplitStrategy) IsValid() bool {
	for _, candidate := range validSplitStrategies {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSplitStrategy converts raw input into a SplitStrategy.
func ParseSplitStrategy(value string) (SplitStrategy, error) {
	for _, candidate := range validSplitStrategies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid split strategy %q", value)
}
