package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Steady", "Thrifty", "Patient", "Loyal", "Bright",
	"Careful", "Golden", "Humble", "Faithful", "Prudent",
	"Generous", "Wise", "Honest", "Diligent", "Cheerful",
}

var nouns = []string{
	"Saver", "Trader", "Weaver", "Farmer", "Baker",
	"Potter", "Tailor", "Merchant", "Builder", "Planner",
	"Keeper", "Grower", "Banker", "Founder", "Partner",
}

func pick(words []string) (string, error) {
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[idx.Int64()], nil
}

// GenerateDisplayName creates a random display name in the format
// "Adjective Noun XXXX" where XXXX is a random 4-digit number
func GenerateDisplayName() (string, error) {
	adjective, err := pick(adjectives)
	if err != nil {
		return "", fmt.Errorf("failed to generate random adjective: %w", err)
	}

	noun, err := pick(nouns)
	if err != nil {
		return "", fmt.Errorf("failed to generate random noun: %w", err)
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s %s %04d", adjective, noun, suffix.Int64()), nil
}
