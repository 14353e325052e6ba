// Package fixtures loads and seeds the author-curated ground-truth fixtures
// used for recommendation validation.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/caleb/scholarmatch/internal/types"
)

const (
	defaultTopNThreshold = 5
	defaultMinimumScore  = 70
)

// Store is the persistence surface fixture import needs.
type Store interface {
	CountFixtures(ctx context.Context) (int, error)
	InsertFixture(ctx context.Context, fixture *types.Fixture) error
}

// fixtureFile mirrors the on-disk fixture document. IsActive is a pointer so
// an omitted flag defaults to active.
type fixtureFile struct {
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	StudentProfile       types.StudentProfile `json:"student_profile"`
	ExpectedScholarships []string             `json:"expected_scholarships"`
	TopNThreshold        int                  `json:"top_n_threshold"`
	MinimumScore         int                  `json:"minimum_score"`
	Tags                 []string             `json:"tags"`
	IsActive             *bool                `json:"is_active"`
}

// LoadFile reads a fixture JSON file, validates it against the schema when a
// schema path is given, and converts it to domain fixtures.
func LoadFile(path, schemaPath string) ([]types.Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file %s: %w", path, err)
	}

	if schemaPath != "" {
		if err := validateAgainstSchema(data, schemaPath); err != nil {
			return nil, err
		}
	}

	var docs []fixtureFile
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}

	fixtures := make([]types.Fixture, 0, len(docs))
	for i, doc := range docs {
		fixture, err := doc.toFixture()
		if err != nil {
			return nil, fmt.Errorf("fixture %d (%s): %w", i, doc.Name, err)
		}
		fixtures = append(fixtures, *fixture)
	}
	return fixtures, nil
}

func (f *fixtureFile) toFixture() (*types.Fixture, error) {
	expected := make([]uuid.UUID, 0, len(f.ExpectedScholarships))
	for _, raw := range f.ExpectedScholarships {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid expected scholarship id %q: %w", raw, err)
		}
		expected = append(expected, id)
	}

	fixture := &types.Fixture{
		Name:                 f.Name,
		Description:          f.Description,
		StudentProfile:       f.StudentProfile,
		ExpectedScholarships: expected,
		TopNThreshold:        f.TopNThreshold,
		MinimumScore:         f.MinimumScore,
		Tags:                 f.Tags,
		IsActive:             true,
	}
	if fixture.TopNThreshold <= 0 {
		fixture.TopNThreshold = defaultTopNThreshold
	}
	if fixture.MinimumScore <= 0 {
		fixture.MinimumScore = defaultMinimumScore
	}
	if f.IsActive != nil {
		fixture.IsActive = *f.IsActive
	}
	return fixture, nil
}

// validateAgainstSchema checks the raw document against the fixture JSON
// schema and reports every violation at once.
func validateAgainstSchema(data []byte, schemaPath string) error {
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read fixture schema %s: %w", schemaPath, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("failed to validate fixture file: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("fixture file failed schema validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Seed inserts the fixtures into the store. Unless force is set, seeding is
// skipped when any fixtures already exist so curated data is never
// duplicated.
func Seed(ctx context.Context, store Store, fixtures []types.Fixture, force bool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !force {
		count, err := store.CountFixtures(ctx)
		if err != nil {
			return fmt.Errorf("failed to check existing fixtures: %w", err)
		}
		if count > 0 {
			logger.Info("fixtures already exist, skipping seed", zap.Int("existing", count))
			return nil
		}
	}

	for i := range fixtures {
		if err := store.InsertFixture(ctx, &fixtures[i]); err != nil {
			return fmt.Errorf("failed to seed fixture %s: %w", fixtures[i].Name, err)
		}
	}
	logger.Info("seeded validation fixtures", zap.Int("count", len(fixtures)))
	return nil
}
