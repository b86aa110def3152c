package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Course is the nested content document: sections contain subsections,
// subsections contain the dialogue turns.
type Course struct {
	Config   Config    `json:"config"`
	Sections []Section `json:"sections"`

	// Practice holds the optional stand-alone quiz sets (multiple choice,
	// fill-in-the-blank, short answer) offered outside the dialogue.
	Practice *Practice `json:"practice,omitempty"`
}

// Config carries course-level settings.
type Config struct {
	Title string `json:"title"`

	// StoragePrefix namespaces every persisted key for this course.
	StoragePrefix string `json:"storagePrefix"`

	// Version is the content format version (semver, "v" prefix optional).
	Version string `json:"version,omitempty"`
}

// Section is a top-level chapter of the course.
type Section struct {
	ID          ID           `json:"id"`
	Title       string       `json:"title"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection groups a run of conversation turns.
type Subsection struct {
	ID            ID             `json:"id"`
	Title         string         `json:"title"`
	Conversations []Conversation `json:"conversations"`
}

// Conversation is a single dialogue line as authored in the course file.
type Conversation struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
	Sidebar Media   `json:"sidebarContent,omitempty"`
}

// ID is an opaque section or subsection identifier. Course files may use
// JSON numbers or strings; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Speaker identifies who says a turn.
type Speaker string

const (
	SpeakerInstructor Speaker = "instructor"
	SpeakerLearner    Speaker = "learner"
)

// ParseSpeaker maps a speaker label (including common aliases) to a Speaker.
func ParseSpeaker(s string) (Speaker, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "instructor", "teacher", "tutor":
		return SpeakerInstructor, nil
	case "learner", "student":
		return SpeakerLearner, nil
	}
	return "", fmt.Errorf("unknown speaker %q", s)
}

func (sp *Speaker) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseSpeaker(s)
	if err != nil {
		return err
	}
	*sp = parsed
	return nil
}

// Label returns the display name used in transcripts and AI context.
func (sp Speaker) Label() string {
	switch sp {
	case SpeakerInstructor:
		return "Instructor"
	case SpeakerLearner:
		return "Learner"
	}
	return string(sp)
}

// MediaKind discriminates the MediaItem variants.
type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
	KindQuiz  MediaKind = "quiz"
)

// MediaItem is auxiliary content attached to a turn. It is implemented
// only by *Image, *Video and *Quiz.
type MediaItem interface {
	Kind() MediaKind
	isMedia()
}

// Image is a still picture shown beside a turn.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Video is an embedded clip shown beside a turn.
type Video struct {
	Src   string `json:"src"`
	Title string `json:"title"`
}

// Quiz is a single-answer multiple choice check attached to a turn.
type Quiz struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

func (*Image) Kind() MediaKind { return KindImage }
func (*Video) Kind() MediaKind { return KindVideo }
func (*Quiz) Kind() MediaKind  { return KindQuiz }

func (*Image) isMedia() {}
func (*Video) isMedia() {}
func (*Quiz) isMedia()  {}

// Media is the sidebar content list of a conversation turn.
type Media []MediaItem

func (m *Media) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("sidebarContent: %w", err)
	}

	out := make(Media, 0, len(raw))
	for i, r := range raw {
		var head struct {
			Type MediaKind `json:"type"`
		}
		if err := json.Unmarshal(r, &head); err != nil {
			return fmt.Errorf("sidebarContent[%d]: %w", i, err)
		}

		var item MediaItem
		switch head.Type {
		case KindImage:
			item = &Image{}
		case KindVideo:
			item = &Video{}
		case KindQuiz:
			item = &Quiz{}
		default:
			return fmt.Errorf("sidebarContent[%d]: unknown media type %q", i, head.Type)
		}
		if err := json.Unmarshal(r, item); err != nil {
			return fmt.Errorf("sidebarContent[%d]: %w", i, err)
		}
		out = append(out, item)
	}
	*m = out
	return nil
}

// Practice is the stand-alone quiz mode content.
type Practice struct {
	MultipleChoice []ChoiceQuestion      `json:"multipleChoice,omitempty"`
	FillBlanks     []FillBlankQuestion   `json:"fillBlanks,omitempty"`
	ShortAnswer    []ShortAnswerQuestion `json:"shortAnswer,omitempty"`
}

// ChoiceQuestion is answered by picking one option index.
type ChoiceQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// FillBlankQuestion is answered with free text compared leniently.
type FillBlankQuestion struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

// ShortAnswerQuestion is scored by the key points an answer mentions.
type ShortAnswerQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	KeyPoints    []string `json:"keyPoints"`
	SampleAnswer string   `json:"sampleAnswer,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}
