package models

import "time"

// EntryModel is one journal entry for one calendar date.
// Content holds the rich HTML as written; Text is the derived plain text
// used for change detection and mood analysis.
type EntryModel struct {
	ID        uint      `json:"id"        gorm:"primaryKey"`
	AuthorID  string    `json:"author_id" gorm:"type:char(36);not null;uniqueIndex:idx_entries_author_date,priority:1"`
	Date      string    `json:"date"      gorm:"type:char(10);not null;uniqueIndex:idx_entries_author_date,priority:2"` // YYYY-MM-DD
	Content   string    `json:"content"   gorm:"type:longtext;not null"`
	Text      string    `json:"text"      gorm:"type:longtext;not null"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`

	Rating *RatingModel `json:"rating,omitempty" gorm:"foreignKey:EntryID"`
}

func (EntryModel) TableName() string { return "entries" }

// RatingModel is the AI-derived mood assessment of exactly one entry.
// Ratings are never updated in place; a stale rating is deleted and a
// fresh one created.
type RatingModel struct {
	ID                  uint      `json:"id"                   gorm:"primaryKey"`
	EntryID             uint      `json:"entry_id"             gorm:"uniqueIndex;not null"`
	OverallMoodScore    int       `json:"overall_mood_score"   gorm:"not null"`
	EnergyLevel         int       `json:"energy_level"         gorm:"not null"`
	EmotionalComplexity int       `json:"emotional_complexity" gorm:"not null"`
	CreatedAt           time.Time `json:"created"`

	Emotions []EmotionModel `json:"dominant_emotions" gorm:"foreignKey:RatingID"`
}

func (RatingModel) TableName() string { return "ratings" }

// EmotionModel is one dominant-emotion tag of a rating.
type EmotionModel struct {
	ID       uint   `json:"id"      gorm:"primaryKey"`
	RatingID uint   `json:"-"       gorm:"index;not null"`
	Emotion  string `json:"emotion" gorm:"type:varchar(16);not null"`
}

func (EmotionModel) TableName() string { return "rating_emotions" }

// PersonModel is a contact owned by one user that entries may mention.
type PersonModel struct {
	ID        uint      `json:"id"       gorm:"primaryKey"`
	OwnerID   string    `json:"owner_id" gorm:"type:char(36);index;not null"`
	Name      string    `json:"name"     gorm:"not null"`
	Surname   string    `json:"surname"  gorm:"not null"`
	Nickname  *string   `json:"nickname"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"modified"`
}

func (PersonModel) TableName() string { return "persons" }

// MentionModel links an entry to a mentioned person. Ownership of the
// person by the entry's author is enforced in the entry service, not here.
type MentionModel struct {
	EntryID   uint      `json:"entry_id"  gorm:"primaryKey;autoIncrement:false"`
	PersonID  uint      `json:"person_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created"`
}

func (MentionModel) TableName() string { return "mentions" }

// EmotionVocabulary is the closed set of dominant-emotion values the
// analysis provider may return. Responses outside it are rejected.
var EmotionVocabulary = []string{
	"joy", "gratitude", "serenity", "interest", "hope",
	"pride", "amusement", "love", "awe",
	"sadness", "anger", "fear", "anxiety", "guilt",
	"shame", "disgust", "loneliness", "fatigue", "boredom",
	"surprise", "confusion", "nostalgia", "ambivalence",
}

var emotionSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(EmotionVocabulary))
	for _, e := range EmotionVocabulary {
		m[e] = struct{}{}
	}
	return m
}()

// IsValidEmotion reports whether e is part of the closed vocabulary.
func IsValidEmotion(e string) bool {
	_, ok := emotionSet[e]
	return ok
}
