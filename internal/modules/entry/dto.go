package entry

import (
	"time"

	"github.com/daybook-app/core/internal/models"
)

// CreateEntryDTO is the request body for creating an entry.
// Mentions distinguishes absent (nil) from present-but-empty, which is
// rejected.
type CreateEntryDTO struct {
	Content  string  `json:"content" binding:"required"`
	Date     string  `json:"date"`
	Mentions *[]uint `json:"mentions"`
}

// UpdateEntryDTO is the request body for a partial update (all fields
// optional).
type UpdateEntryDTO struct {
	Content  *string `json:"content"`
	Date     *string `json:"date"`
	Mentions *[]uint `json:"mentions"`
}

// ListQuery holds query params for the calendar listing.
type ListQuery struct {
	Month *int `form:"month"`
	Year  *int `form:"year"`
}

type ratingResponse struct {
	OverallMoodScore    int      `json:"overallMoodScore"`
	EnergyLevel         int      `json:"energyLevel"`
	EmotionalComplexity int      `json:"emotionalComplexity"`
	DominantEmotions    []string `json:"dominantEmotions"`
}

type personRef struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Surname  string  `json:"surname"`
	Nickname *string `json:"nickname"`
}

// entryResponse is the API aggregate for one entry.
type entryResponse struct {
	ID       uint            `json:"id"`
	Date     string          `json:"date"`
	Content  string          `json:"content"`
	Rating   *ratingResponse `json:"rating"`
	Mentions []personRef     `json:"mentions"`
	Created  time.Time       `json:"created"`
	Modified *time.Time      `json:"modified"`
}

type entryListItem struct {
	ID   uint   `json:"id"`
	Date string `json:"date"`
}

func toResponse(e *models.EntryModel, persons []models.PersonModel) entryResponse {
	var rating *ratingResponse
	if e.Rating != nil {
		emotions := make([]string, len(e.Rating.Emotions))
		for i, em := range e.Rating.Emotions {
			emotions[i] = em.Emotion
		}
		rating = &ratingResponse{
			OverallMoodScore:    e.Rating.OverallMoodScore,
			EnergyLevel:         e.Rating.EnergyLevel,
			EmotionalComplexity: e.Rating.EmotionalComplexity,
			DominantEmotions:    emotions,
		}
	}

	mentions := make([]personRef, len(persons))
	for i, p := range persons {
		mentions[i] = personRef{
			ID:       p.ID,
			Name:     p.Name,
			Surname:  p.Surname,
			Nickname: p.Nickname,
		}
	}

	var modified *time.Time
	if !e.UpdatedAt.IsZero() && e.UpdatedAt.After(e.CreatedAt) {
		modifiedAt := e.UpdatedAt
		modified = &modifiedAt
	}

	return entryResponse{
		ID:       e.ID,
		Date:     e.Date,
		Content:  e.Content,
		Rating:   rating,
		Mentions: mentions,
		Created:  e.CreatedAt,
		Modified: modified,
	}
}
