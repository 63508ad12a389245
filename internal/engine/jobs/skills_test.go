package jobs

import (
	"encoding/json"
	"reflect"
	"testing"
)

var testCategoryOrder = []string{"Programming Languages", "Frameworks & Libraries", "Databases", "Tools & Technologies", "Git", "Scrum"}

func TestNormalizeSkillsObject(t *testing.T) {
	data := []byte(`{"programming_languages": ["Python", "SQL"], "git": [], "tools_and_technologies": ["Docker", " Kubernetes "]}`)

	groups, err := NormalizeSkills(data, testCategoryOrder)
	if err != nil {
		t.Fatalf("NormalizeSkills: %v", err)
	}
	want := []SkillGroup{
		{Category: "Programming Languages", Skills: []string{"Python", "SQL"}},
		{Category: "Git"},
		{Category: "Tools And Technologies", Skills: []string{"Docker", "Kubernetes"}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %+v, want %+v", groups, want)
	}
}

func TestNormalizeSkillsFlatList(t *testing.T) {
	groups, err := NormalizeSkills([]byte(`["Go", "Docker", ""]`), testCategoryOrder)
	if err != nil {
		t.Fatalf("NormalizeSkills: %v", err)
	}
	want := []SkillGroup{{Category: UncategorizedLabel, Skills: []string{"Go", "Docker"}}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %+v, want %+v", groups, want)
	}
}

func TestNormalizeSkillsDelimitedString(t *testing.T) {
	groups, err := NormalizeSkills([]byte(`"Go, Docker; Kubernetes"`), testCategoryOrder)
	if err != nil {
		t.Fatalf("NormalizeSkills: %v", err)
	}
	want := []SkillGroup{{Category: UncategorizedLabel, Skills: []string{"Go", "Docker", "Kubernetes"}}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %+v, want %+v", groups, want)
	}
}

func TestNormalizeSkillsCanonicalArray(t *testing.T) {
	data := []byte(`[{"category": "databases", "skills": ["PostgreSQL"]}, {"category": "Scrum", "skills": []}]`)

	groups, err := NormalizeSkills(data, testCategoryOrder)
	if err != nil {
		t.Fatalf("NormalizeSkills: %v", err)
	}
	want := []SkillGroup{
		{Category: "Databases", Skills: []string{"PostgreSQL"}},
		{Category: "Scrum"},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("groups = %+v, want %+v", groups, want)
	}
}

func TestNormalizeSkillsEmpty(t *testing.T) {
	for _, data := range []string{``, `null`, `[]`, `""`} {
		groups, err := NormalizeSkills([]byte(data), testCategoryOrder)
		if err != nil {
			t.Errorf("NormalizeSkills(%q) error: %v", data, err)
		}
		if groups != nil {
			t.Errorf("NormalizeSkills(%q) = %+v, want nil", data, groups)
		}
	}
}

func TestNormalizeSkillsMalformed(t *testing.T) {
	for _, data := range []string{`42`, `{"languages": 42}`, `[42]`} {
		if _, err := NormalizeSkills([]byte(data), testCategoryOrder); err == nil {
			t.Errorf("NormalizeSkills(%q): expected error", data)
		}
	}
}

func TestSkillsRoundTrip(t *testing.T) {
	shapes := map[string]string{
		"flat list": `["Go", "Docker"]`,
		"object":    `{"programming_languages": ["Python", "SQL"], "git": []}`,
		"string":    `"Go, Docker; Kubernetes"`,
	}
	for name, data := range shapes {
		t.Run(name, func(t *testing.T) {
			first, err := NormalizeSkills([]byte(data), testCategoryOrder)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}
			serialized, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			second, err := NormalizeSkills(serialized, testCategoryOrder)
			if err != nil {
				t.Fatalf("re-normalize: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("round trip changed groups:\nfirst:  %+v\nsecond: %+v", first, second)
			}
		})
	}
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"languages", "Languages"},
		{"programming_languages", "Programming Languages"},
		{"Frameworks & libraries", "Frameworks & Libraries"},
		{"JavaScript frameworks", "JavaScript Frameworks"},
		{"  git  ", "Git"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := canonicalCategory(tt.in); got != tt.want {
			t.Errorf("canonicalCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlattenSkills(t *testing.T) {
	groups := []SkillGroup{
		{Category: "Languages", Skills: []string{"Go", "SQL"}},
		{Category: "Git"},
		{Category: "Tools", Skills: []string{"Docker"}},
	}
	want := []string{"Go", "SQL", "Docker"}
	if got := FlattenSkills(groups); !reflect.DeepEqual(got, want) {
		t.Errorf("FlattenSkills = %v, want %v", got, want)
	}
}
