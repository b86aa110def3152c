package course

import (
	"errors"
	"testing"
)

func TestLoad_JSONFixture(t *testing.T) {
	c := loadFixture(t)

	if c.Config.StoragePrefix != "chem11_ch1" {
		t.Errorf("StoragePrefix = %q", c.Config.StoragePrefix)
	}
	if len(c.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(c.Sections))
	}
	if c.Sections[0].ID != "1" || c.Sections[1].ID != "units" {
		t.Errorf("section ids = %q, %q; want 1, units", c.Sections[0].ID, c.Sections[1].ID)
	}

	side := c.Sections[0].Subsections[0].Conversations[1].Sidebar
	if len(side) != 2 {
		t.Fatalf("got %d sidebar items, want 2", len(side))
	}
	img, ok := side[0].(*Image)
	if !ok {
		t.Fatalf("first sidebar item is %T, want *Image", side[0])
	}
	if img.Src != "img/matter.png" {
		t.Errorf("image src = %q", img.Src)
	}
	quiz, ok := side[1].(*Quiz)
	if !ok {
		t.Fatalf("second sidebar item is %T, want *Quiz", side[1])
	}
	if quiz.CorrectAnswer != 1 {
		t.Errorf("CorrectAnswer = %d, want 1", quiz.CorrectAnswer)
	}

	if c.Practice == nil {
		t.Fatal("practice set not loaded")
	}
	if n := len(c.Practice.ShortAnswer); n != 1 {
		t.Errorf("got %d short answers, want 1", n)
	}
}

func TestParse_YAML(t *testing.T) {
	doc := `
config:
  title: Demo
  storagePrefix: demo
sections:
  - id: 1
    title: Intro
    subsections:
      - id: a
        title: Hello
        conversations:
          - speaker: tutor
            text: Welcome.
            sidebarContent:
              - type: video
                src: intro.mp4
                title: Intro clip
          - speaker: learner
            text: Thanks!
`
	c, err := Parse([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	idx := NewIndex(c)
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}
	first, _ := idx.At(0)
	if first.Speaker != SpeakerInstructor {
		t.Errorf("tutor should map to the instructor, got %v", first.Speaker)
	}
	if first.SectionID != "1" {
		t.Errorf("SectionID = %q, want 1", first.SectionID)
	}
	if len(first.Sidebar) != 1 || first.Sidebar[0].Kind() != KindVideo {
		t.Errorf("sidebar = %v, want one video", first.Sidebar)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing sections", `{"config":{"storagePrefix":"x"}}`},
		{"missing prefix", `{"config":{},"sections":[]}`},
		{"unknown media", `{"config":{"storagePrefix":"x"},"sections":[{"id":1,"title":"s","subsections":[{"id":1,"title":"u","conversations":[{"speaker":"teacher","text":"t","sidebarContent":[{"type":"audio"}]}]}]}]}`},
		{"unknown speaker", `{"config":{"storagePrefix":"x"},"sections":[{"id":1,"title":"s","subsections":[{"id":1,"title":"u","conversations":[{"speaker":"narrator","text":"t"}]}]}]}`},
		{"quiz answer out of range", `{"config":{"storagePrefix":"x"},"sections":[{"id":1,"title":"s","subsections":[{"id":1,"title":"u","conversations":[{"speaker":"teacher","text":"t","sidebarContent":[{"type":"quiz","question":"q","options":["a"],"correctAnswer":3}]}]}]}]}`},
		{"unsupported major", `{"config":{"storagePrefix":"x","version":"2.0.0"},"sections":[]}`},
		{"bad version", `{"config":{"storagePrefix":"x","version":"latest"},"sections":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatJSON)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("err = %v (%T), want *ValidationError", err, err)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		v    string
		want bool
	}{
		{"", true},
		{"1.0.0", true},
		{"v1.4.2", true},
		{"v1.0.0-beta.1", true},
		{"v2.0.0", false},
		{"one", false},
	}
	for _, tt := range tests {
		err := checkVersion(tt.v)
		if (err == nil) != tt.want {
			t.Errorf("checkVersion(%q) error = %v, want ok=%v", tt.v, err, tt.want)
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"course.yaml": FormatYAML,
		"COURSE.YML":  FormatYAML,
		"course.json": FormatJSON,
		"course":      FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", path, got, want)
		}
	}
}
