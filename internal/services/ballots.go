package services

import (
	"errors"
	"fmt"
	"time"

	"factlab/internal/db"
	"factlab/internal/models"
	"factlab/internal/utils"
	"factlab/internal/voteschema"

	"gorm.io/gorm"
)

const voteResultsTTL = 30 * time.Second

// VoteResults is the aggregate state of one content's trust poll.
type VoteResults struct {
	ContentID   uint             `json:"content_id"`
	Analysis    string           `json:"analysis"`
	Counts      map[string]int64 `json:"counts"`
	Percentages map[string]int   `json:"percentages"`
	Total       int64            `json:"total"`
}

// CastVote records userID's ballot on contentID. The ballot insert and the
// content vote counter ride one transaction; uniqueness comes from the
// (content_id, user_id) index, so a concurrent duplicate loses with
// ErrDuplicateVote instead of overwriting the first ballot.
func CastVote(contentID, userID uint, optionKey string) (*VoteResults, error) {
	var content models.Content
	if err := db.DB.First(&content, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %d", ErrNotFound, contentID)
		}
		return nil, storageErr("load content", err)
	}

	schema := voteschema.Resolve(content.AnalysisType)
	if !schema.Contains(optionKey) {
		return nil, fmt.Errorf("%w: option %q is not in the %s schema", ErrValidation, optionKey, schema.Analysis)
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		ballot := models.Ballot{
			ContentID: contentID,
			UserID:    userID,
			OptionKey: optionKey,
		}
		if err := tx.Create(&ballot).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateVote
			}
			return storageErr("insert ballot", err)
		}

		if err := tx.Model(&models.Content{}).
			Where("id = ?", contentID).
			UpdateColumn("vote_count", gorm.Expr("vote_count + ?", 1)).
			Error; err != nil {
			return storageErr("bump vote count", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.GetCache().Delete(voteResultsCacheKey(contentID))
	return VoteResultsFor(contentID)
}

// VoteResultsFor returns counts for every option of the content's schema,
// zero-filled where nobody voted, plus total and per-option percentages.
func VoteResultsFor(contentID uint) (*VoteResults, error) {
	cacheKey := voteResultsCacheKey(contentID)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if results, ok := cached.(*VoteResults); ok {
			return results, nil
		}
	}

	var content models.Content
	if err := db.DB.First(&content, contentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: content %d", ErrNotFound, contentID)
		}
		return nil, storageErr("load content", err)
	}
	schema := voteschema.Resolve(content.AnalysisType)

	type optionCount struct {
		OptionKey string
		Count     int64
	}
	var rows []optionCount
	if err := db.DB.Model(&models.Ballot{}).
		Select("option_key, COUNT(*) as count").
		Where("content_id = ?", contentID).
		Group("option_key").
		Scan(&rows).Error; err != nil {
		return nil, storageErr("count ballots", err)
	}

	counts := make(map[string]int64, len(schema.Options))
	for _, key := range schema.Keys() {
		counts[key] = 0
	}
	var total int64
	for _, row := range rows {
		counts[row.OptionKey] = row.Count
		total += row.Count
	}

	results := &VoteResults{
		ContentID:   contentID,
		Analysis:    schema.Analysis,
		Counts:      counts,
		Percentages: voteschema.Percentages(counts, total),
		Total:       total,
	}
	utils.GetCache().Set(cacheKey, results, voteResultsTTL)
	return results, nil
}

// UserBallot returns the option key of userID's ballot on contentID, or ""
// if they have not voted. The store is the source of truth here; the UI's
// local "already voted" flag is advisory only.
func UserBallot(contentID, userID uint) (string, error) {
	var ballot models.Ballot
	err := db.DB.Where("content_id = ? AND user_id = ?", contentID, userID).First(&ballot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", storageErr("load ballot", err)
	}
	return ballot.OptionKey, nil
}

// UserBallots lists a user's voting history, newest first.
func UserBallots(userID uint, limit int) ([]models.Ballot, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var ballots []models.Ballot
	if err := db.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&ballots).Error; err != nil {
		return nil, storageErr("list ballots", err)
	}
	return ballots, nil
}

func voteResultsCacheKey(contentID uint) string {
	return fmt.Sprintf("votes:content:%d", contentID)
}
