package skillgap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Helpers
// ==========================

func twoDimCatalog() Catalog {
	return Catalog{"Networking", "AI ML"}
}

func testScale() RatingScale {
	return RatingScale{
		"Not Interested": 0, "Poor": 1, "Beginner": 2, "Average": 3,
		"Intermediate": 4, "Excellent": 5, "Professional": 6,
	}
}

// ==========================
// Encoder
// ==========================

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		ratings  map[string]string
		expected Vector
	}{
		{
			name:     "known label and missing dimension",
			ratings:  map[string]string{"Networking": "Excellent"},
			expected: Vector{5, 0},
		},
		{
			name:     "unknown label maps to zero",
			ratings:  map[string]string{"Networking": "???"},
			expected: Vector{0, 0},
		},
		{
			name:     "nil ratings",
			ratings:  nil,
			expected: Vector{0, 0},
		},
		{
			name:     "extra dimensions ignored",
			ratings:  map[string]string{"AI ML": "Professional", "Cooking": "Excellent"},
			expected: Vector{0, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.ratings, twoDimCatalog(), testScale()))
		})
	}
}

func TestRatingScale_Score(t *testing.T) {
	scale := testScale()
	for label, want := range scale {
		assert.Equal(t, want, scale.Score(label), label)
	}
	assert.Equal(t, 0, scale.Score("excellent"), "labels are case sensitive")
}

// ==========================
// Roadmap generator
// ==========================

func TestGenerateRoadmap_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		user     Vector
		ideal    Vector
		expected Roadmap
	}{
		{
			name:  "both critical in catalog order",
			user:  Vector{2, 1},
			ideal: Vector{6, 6},
			expected: Roadmap{
				{Skill: "Networking", Status: StatusCritical, Priority: 1, Note: NoteCritical},
				{Skill: "AI ML", Status: StatusCritical, Priority: 1, Note: NoteCritical},
			},
		},
		{
			name:  "gaps of one and two are improvements",
			user:  Vector{4, 4},
			ideal: Vector{5, 6},
			expected: Roadmap{
				{Skill: "Networking", Status: StatusImprovement, Priority: 2, Note: NoteImprovement},
				{Skill: "AI ML", Status: StatusImprovement, Priority: 2, Note: NoteImprovement},
			},
		},
		{
			name:     "user exceeds ideal",
			user:     Vector{6, 6},
			ideal:    Vector{3, 3},
			expected: Roadmap{},
		},
		{
			name:  "critical sorted before earlier improvement",
			user:  Vector{5, 0},
			ideal: Vector{6, 6},
			expected: Roadmap{
				{Skill: "AI ML", Status: StatusCritical, Priority: 1, Note: NoteCritical},
				{Skill: "Networking", Status: StatusImprovement, Priority: 2, Note: NoteImprovement},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateRoadmap(tt.user, tt.ideal, twoDimCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGenerateRoadmap_Properties(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	users := []Vector{
		make(Vector, len(tables.Catalog)),
		{6, 5, 4, 3, 2, 1, 0, 6, 5, 4, 3, 2, 1, 0, 6, 5, 4},
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
	}

	for role, ideal := range tables.Ideals {
		for _, user := range users {
			roadmap, err := GenerateRoadmap(user, ideal, tables.Catalog)
			require.NoError(t, err)

			bySkill := map[string]Entry{}
			for _, e := range roadmap {
				_, dup := bySkill[e.Skill]
				assert.False(t, dup, "one entry per skill")
				bySkill[e.Skill] = e
			}

			for i, skill := range tables.Catalog {
				gap := ideal[i] - user[i]
				e, ok := bySkill[skill]
				switch {
				case gap <= 0:
					assert.False(t, ok, "%s/%s: no entry when gap <= 0", role, skill)
				case gap > 2:
					require.True(t, ok)
					assert.Equal(t, StatusCritical, e.Status)
					assert.Equal(t, 1, e.Priority)
				default:
					require.True(t, ok)
					assert.Equal(t, StatusImprovement, e.Status)
					assert.Equal(t, 2, e.Priority)
				}
			}

			seenImprovement := false
			for _, e := range roadmap {
				if e.Priority == 2 {
					seenImprovement = true
				}
				if e.Priority == 1 {
					assert.False(t, seenImprovement, "priority 1 after priority 2")
				}
			}

			again, err := GenerateRoadmap(user, ideal, tables.Catalog)
			require.NoError(t, err)
			assert.Equal(t, roadmap, again)
		}
	}
}

func TestGenerateRoadmap_StableWithinPriority(t *testing.T) {
	catalog := Catalog{"a", "b", "c", "d", "e"}
	user := Vector{0, 5, 0, 5, 0}
	ideal := Vector{6, 6, 6, 6, 6}

	roadmap, err := GenerateRoadmap(user, ideal, catalog)
	require.NoError(t, err)

	var skills []string
	for _, e := range roadmap {
		skills = append(skills, e.Skill)
	}
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, skills)

	critical, improvement := roadmap.Counts()
	assert.Equal(t, 3, critical)
	assert.Equal(t, 2, improvement)
}

func TestGenerateRoadmap_DimensionMismatch(t *testing.T) {
	tests := []struct {
		name  string
		user  Vector
		ideal Vector
	}{
		{name: "short user", user: Vector{1}, ideal: Vector{1, 2}},
		{name: "short ideal", user: Vector{1, 2}, ideal: Vector{1}},
		{name: "nil ideal", user: Vector{1, 2}, ideal: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateRoadmap(tt.user, tt.ideal, twoDimCatalog())
			assert.True(t, errors.Is(err, ErrDimensionMismatch))
		})
	}
}

func TestGenerateRoadmap_EmptyIsNotNil(t *testing.T) {
	roadmap, err := GenerateRoadmap(Vector{}, Vector{}, Catalog{})
	require.NoError(t, err)
	assert.NotNil(t, roadmap)
	assert.Len(t, roadmap, 0)
}

// ==========================
// Tables
// ==========================

func TestDefaultTables(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Len(t, tables.Catalog, 17)
	assert.Equal(t, "Database Fundamentals", tables.Catalog[0])
	assert.Equal(t, "Graphics Designing", tables.Catalog[16])
	assert.Len(t, tables.Ideals, 19)
	assert.Len(t, tables.Classes, 18)
	assert.NotContains(t, tables.Classes, DefaultRole)

	assert.Equal(t, Vector{5, 3, 5, 2, 2, 4, 6, 3, 2, 5, 6, 4, 5, 5, 6, 4, 2}, tables.IdealFor("Data Scientist"))
	assert.Equal(t, Vector{2, 2, 1, 1, 1, 2, 3, 3, 1, 5, 2, 2, 3, 5, 2, 4, 6}, tables.IdealFor("Graphics Designer"))
}

func TestTables_IdealFor_UnknownRoleUsesDefault(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	ideal := tables.IdealFor("Astronaut")
	require.Len(t, ideal, 17)
	for _, v := range ideal {
		assert.Equal(t, 3, v)
	}
	assert.False(t, tables.HasRole("Astronaut"))
	assert.True(t, tables.HasRole("Network Engineer"))
}

func TestTables_DescriptionFor(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	assert.Contains(t, tables.DescriptionFor("Default Career"), "general career path")
	assert.Equal(t,
		"A detailed description for the role: Astronaut is not yet available in our database.",
		tables.DescriptionFor("Astronaut"))
}

func TestTables_DescriptionFor_CatalogText(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	tests := []struct {
		role string
		want string
	}{
		{
			role: "Software Engineer",
			want: "Applies engineering principles to the design, development, maintenance, testing, and evaluation of software systems. " +
				"This role typically works on large, complex codebases and focuses on the long-term maintainability and scalability of applications (Software Engineering).",
		},
		{
			role: "Default Career",
			want: "A general career path focused on utilizing technical and business skills to solve organizational challenges. " +
				"Specific duties depend on specialization and can involve a mix of development and analysis.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.DescriptionFor(tt.role))
		})
	}

	prefixes := map[string]string{
		"Data Scientist":            "A Data Scientist explores large datasets to extract insights and develop predictive models.",
		"Cyber Security Specialist": "A Cyber Security Specialist protects an organization\u2019s digital systems from internal and external threats.",
		"Graphics Designer":         "A Graphics Designer creates visually appealing content for marketing, branding, and communication.",
	}
	for role, prefix := range prefixes {
		assert.Truef(t, strings.HasPrefix(tables.DescriptionFor(role), prefix), "description for %s", role)
	}
	assert.True(t, strings.HasSuffix(tables.DescriptionFor("Data Scientist"), "Their expertise drives data-driven decision-making."))
}

func TestTables_ClassLabel(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	first, err := tables.ClassLabel(0)
	require.NoError(t, err)
	assert.Equal(t, "AI ML Specialist", first)

	second, err := tables.ClassLabel(1)
	require.NoError(t, err)
	assert.Equal(t, "API Specialist", second)

	_, err = tables.ClassLabel(18)
	assert.Error(t, err)
	_, err = tables.ClassLabel(-1)
	assert.Error(t, err)
}

func TestTables_EncodeAndRoadmap(t *testing.T) {
	tables, err := DefaultTables()
	require.NoError(t, err)

	user := tables.Encode(map[string]string{"Networking": "Professional", "Cyber Security": "Poor"})
	assert.Equal(t, 6, user[4])
	assert.Equal(t, 1, user[3])

	roadmap, err := tables.Roadmap(user, "Network Engineer")
	require.NoError(t, err)
	require.NotEmpty(t, roadmap)
	assert.Equal(t, PriorityCritical, roadmap[0].Priority)
	for _, e := range roadmap {
		assert.NotEqual(t, "Networking", e.Skill)
	}
}

func TestParseTables_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing default role",
			yaml: `
catalog: [A, B]
rating_scale: {Not Interested: 0, Poor: 1, Beginner: 2, Average: 3, Intermediate: 4, Excellent: 5, Professional: 6}
roles:
  - {name: X, ideal: [1, 2]}
`,
		},
		{
			name: "vector length mismatch",
			yaml: `
catalog: [A, B]
rating_scale: {Not Interested: 0, Poor: 1, Beginner: 2, Average: 3, Intermediate: 4, Excellent: 5, Professional: 6}
roles:
  - {name: Default Career, ideal: [3, 3, 3]}
`,
		},
		{
			name: "incomplete scale",
			yaml: `
catalog: [A]
rating_scale: {Poor: 1}
roles:
  - {name: Default Career, ideal: [3]}
`,
		},
		{
			name: "duplicate dimension",
			yaml: `
catalog: [A, A]
rating_scale: {Not Interested: 0, Poor: 1, Beginner: 2, Average: 3, Intermediate: 4, Excellent: 5, Professional: 6}
roles:
  - {name: Default Career, ideal: [3, 3]}
`,
		},
		{
			name: "malformed yaml",
			yaml: "catalog: [A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTables([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadTables_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `
catalog: [Networking, AI ML]
rating_scale: {Not Interested: 0, Poor: 1, Beginner: 2, Average: 3, Intermediate: 4, Excellent: 5, Professional: 6}
classes: [Net, Default Career]
roles:
  - {name: Net, ideal: [6, 1], description: networks}
  - {name: Default Career, ideal: [3, 3]}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Net", "Default Career"}, tables.Classes)
	assert.Equal(t, "networks", tables.DescriptionFor("Net"))

	_, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
