package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daybook-app/core/internal/database"
	"github.com/daybook-app/core/internal/models"
	"github.com/daybook-app/core/internal/modules/analysis"
	"github.com/daybook-app/core/internal/pkg/htmltext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var (
	ErrNotFound   = errors.New("entry not found")
	ErrForbidden  = errors.New("mentioned person does not belong to you")
	ErrValidation = errors.New("validation failed")
)

// Analyzer produces a mood rating for plain entry text. The real
// implementation lives in the analysis module.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*analysis.Result, error)
}

type Service struct {
	db       *gorm.DB
	analyzer Analyzer
	logger   *zap.Logger
}

func NewService(db *gorm.DB, analyzer Analyzer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, analyzer: analyzer, logger: logger.Named("entry")}
}

// Create persists a new entry and then rates it. Mention ownership is
// verified before anything is written; rating is best effort and a
// failed analysis still leaves the entry committed.
func (s *Service) Create(ctx context.Context, authorID string, dto *CreateEntryDTO) (*models.EntryModel, []models.PersonModel, error) {
	date := dto.Date
	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if err := validateDate(date); err != nil {
		return nil, nil, err
	}

	var mentionIDs []uint
	if dto.Mentions != nil {
		mentionIDs = dedupe(*dto.Mentions)
		if len(mentionIDs) == 0 {
			return nil, nil, fmt.Errorf("%w: mentions must not be empty when provided", ErrValidation)
		}
	}

	persons, err := s.ownedPersons(authorID, mentionIDs)
	if err != nil {
		return nil, nil, err
	}

	entry := models.EntryModel{
		AuthorID: authorID,
		Date:     date,
		Content:  dto.Content,
		Text:     htmltext.Extract(dto.Content),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			if database.IsDuplicateKeyError(err) {
				return fmt.Errorf("%w: an entry for this date already exists", ErrValidation)
			}
			return err
		}
		for _, pid := range mentionIDs {
			if err := tx.Create(&models.MentionModel{EntryID: entry.ID, PersonID: pid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.rate(ctx, &entry)
	return &entry, persons, nil
}

// Update applies a partial update. When the plain text actually changed
// the stale rating is deleted inside the same transaction as the content
// write, and a fresh rating is attempted afterwards.
func (s *Service) Update(ctx context.Context, authorID string, id uint, dto *UpdateEntryDTO) (*models.EntryModel, []models.PersonModel, error) {
	entry, err := s.load(authorID, id)
	if err != nil {
		return nil, nil, err
	}

	updates := map[string]interface{}{}
	if dto.Date != nil {
		if err := validateDate(*dto.Date); err != nil {
			return nil, nil, err
		}
		updates["date"] = *dto.Date
	}

	changed := false
	if dto.Content != nil {
		newText := htmltext.Extract(*dto.Content)
		changed = textChanged(entry.Text, newText)
		updates["content"] = *dto.Content
		updates["text"] = newText
	}

	var mentionIDs []uint
	if dto.Mentions != nil {
		mentionIDs = dedupe(*dto.Mentions)
		if len(mentionIDs) == 0 {
			return nil, nil, fmt.Errorf("%w: mentions must not be empty when provided", ErrValidation)
		}
		if _, err := s.ownedPersons(authorID, mentionIDs); err != nil {
			return nil, nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if changed && entry.Rating != nil {
			if err := tx.Where("rating_id = ?", entry.Rating.ID).Delete(&models.EmotionModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.RatingModel{}).Error; err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(entry).Updates(updates).Error; err != nil {
				if database.IsDuplicateKeyError(err) {
					return fmt.Errorf("%w: an entry for this date already exists", ErrValidation)
				}
				return err
			}
		}
		if dto.Mentions != nil {
			if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.MentionModel{}).Error; err != nil {
				return err
			}
			for _, pid := range mentionIDs {
				if err := tx.Create(&models.MentionModel{EntryID: entry.ID, PersonID: pid}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if changed {
		entry.Rating = nil
		s.rate(ctx, entry)
	}

	persons, err := s.mentionedPersons(entry.ID)
	if err != nil {
		return nil, nil, err
	}
	return entry, persons, nil
}

// Get returns one entry with its rating and mentioned persons.
func (s *Service) Get(authorID string, id uint) (*models.EntryModel, []models.PersonModel, error) {
	entry, err := s.load(authorID, id)
	if err != nil {
		return nil, nil, err
	}
	persons, err := s.mentionedPersons(entry.ID)
	if err != nil {
		return nil, nil, err
	}
	return entry, persons, nil
}

// Delete removes an entry together with its rating, emotion rows and
// mention rows. Cascades are issued explicitly so behavior does not
// depend on the backing database enforcing FK actions.
func (s *Service) Delete(authorID string, id uint) error {
	entry, err := s.load(authorID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if entry.Rating != nil {
			if err := tx.Where("rating_id = ?", entry.Rating.ID).Delete(&models.EmotionModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.RatingModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.MentionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(entry).Error
	})
}

// List returns the author's entries in a three month window around the
// requested month, so a calendar view can render trailing and leading
// days. Dates are YYYY-MM-DD strings, which compare correctly as text.
func (s *Service) List(authorID string, month, year int) ([]models.EntryModel, error) {
	now := time.Now()
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year <= 0 {
		year = now.Year()
	}

	base := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	from := base.AddDate(0, -1, 0).Format(dateLayout)
	to := base.AddDate(0, 2, -1).Format(dateLayout)

	var entries []models.EntryModel
	err := s.db.
		Where("author_id = ? AND date >= ? AND date <= ?", authorID, from, to).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}

// BackfillRatings rates every entry created within the window that has
// no rating yet. Each entry is rated independently; one failure never
// aborts the batch.
func (s *Service) BackfillRatings(ctx context.Context, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window)

	var entries []models.EntryModel
	err := s.db.Model(&models.EntryModel{}).
		Select("entries.*").
		Joins("LEFT JOIN ratings ON ratings.entry_id = entries.id").
		Where("entries.created_at >= ? AND ratings.id IS NULL", cutoff).
		Find(&entries).Error
	if err != nil {
		return 0, err
	}

	rated := 0
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return rated, err
		}
		e := &entries[i]
		s.rate(ctx, e)
		if e.Rating != nil {
			rated++
		}
	}
	return rated, nil
}

// rate calls the analyzer and stores the result. Any failure is logged
// and swallowed; callers never fail because of it.
func (s *Service) rate(ctx context.Context, entry *models.EntryModel) {
	if s.analyzer == nil {
		return
	}

	result, err := s.analyzer.Analyze(ctx, entry.Text)
	if err != nil {
		s.logger.Warn("mood analysis skipped",
			zap.Uint("entry", entry.ID),
			zap.Error(err))
		return
	}

	rating := models.RatingModel{
		EntryID:             entry.ID,
		OverallMoodScore:    result.OverallMoodScore,
		EnergyLevel:         result.EnergyLevel,
		EmotionalComplexity: result.EmotionalComplexity,
	}
	for _, emotion := range result.DominantEmotions {
		rating.Emotions = append(rating.Emotions, models.EmotionModel{Emotion: emotion})
	}

	if err := s.db.Create(&rating).Error; err != nil {
		// A concurrent writer already rated this entry. Keep theirs.
		if database.IsDuplicateKeyError(err) {
			return
		}
		s.logger.Warn("rating persistence failed",
			zap.Uint("entry", entry.ID),
			zap.Error(err))
		return
	}
	entry.Rating = &rating
}

func (s *Service) load(authorID string, id uint) (*models.EntryModel, error) {
	var entry models.EntryModel
	err := s.db.
		Preload("Rating").
		Preload("Rating.Emotions").
		Where("id = ? AND author_id = ?", id, authorID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ownedPersons resolves mention ids against the author's persons. Any id
// that does not resolve to an owned person fails the whole set; a
// missing person is indistinguishable from someone else's.
func (s *Service) ownedPersons(authorID string, ids []uint) ([]models.PersonModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var persons []models.PersonModel
	err := s.db.
		Where("owner_id = ? AND id IN ?", authorID, ids).
		Find(&persons).Error
	if err != nil {
		return nil, err
	}
	if len(persons) != len(ids) {
		return nil, ErrForbidden
	}
	return persons, nil
}

func (s *Service) mentionedPersons(entryID uint) ([]models.PersonModel, error) {
	var persons []models.PersonModel
	err := s.db.Model(&models.PersonModel{}).
		Joins("JOIN mentions ON mentions.person_id = persons.id").
		Where("mentions.entry_id = ?", entryID).
		Order("persons.id ASC").
		Find(&persons).Error
	return persons, err
}

func validateDate(s string) error {
	if len(s) != len(dateLayout) {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
