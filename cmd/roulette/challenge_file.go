package main

import (
	"fmt"
	"os"

	"github.com/mapcrowd/roulette/pkg/models"
	"gopkg.in/yaml.v3"
)

// challengeFile is the yaml definition accepted by create-challenge.
type challengeFile struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Type        string `yaml:"type"`
	Active      bool   `yaml:"active"`
	Instruction string `yaml:"instruction"`
}

func loadChallengeFile(path string) (*models.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cf challengeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse challenge file: %w", err)
	}
	if cf.Slug == "" {
		return nil, fmt.Errorf("challenge file needs a slug")
	}

	c := &models.Challenge{
		Slug:        cf.Slug,
		Title:       cf.Title,
		Type:        models.ChallengeType(cf.Type),
		Active:      cf.Active,
		Instruction: cf.Instruction,
	}
	if c.Type == "" {
		c.Type = models.ChallengeTypeDefault
	}
	if _, ok := models.LookupChallengeType(c.Type); !ok {
		return nil, fmt.Errorf("unknown challenge type %q (known: %v)", c.Type, models.KnownChallengeTypes())
	}
	return c, nil
}
