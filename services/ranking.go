package services

import (
	"sort"
	"strings"

	"sports-prediction-system/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ContestLeaderboardEntry is one ranked row of a per-contest leaderboard.
type ContestLeaderboardEntry struct {
	ID              string `json:"id"` // score row id, or synthesized when no score exists
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Score           int    `json:"score"`
	Rank            int    `json:"rank"`
	IsCurrentUser   bool   `json:"is_current_user"`
}

// AllTimeLeaderboardEntry is one ranked row of the global leaderboard.
type AllTimeLeaderboardEntry struct {
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	TotalScore      int    `json:"total_score"`
	ContestsPlayed  int    `json:"contests_played"`
	Rank            int    `json:"rank"`
	IsCurrentUser   bool   `json:"is_current_user"`
}

// ContestWinner is the top scorer of one past contest.
type ContestWinner struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	ContestID       string `json:"contest_id"`
	Year            int    `json:"year"`
	CompetitionName string `json:"competition_name"`
	Score           int    `json:"score"`
}

func displayName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// BuildContestLeaderboard ranks a contest from already-fetched rows.
// participants must contain a profile for every user to rank (the union of
// users with a prediction and users with a score row); duplicates are dropped.
// Users without a score row rank with score 0. Sorting is score descending
// with locale name comparison breaking ties; ranks are dense "1224" style.
// A current user absent from the set is appended last with score 0.
func BuildContestLeaderboard(participants []models.User, scores []models.UserContestScore, currentUser *models.User) []ContestLeaderboardEntry {
	scoreByUser := make(map[string]models.UserContestScore, len(scores))
	for _, row := range scores {
		scoreByUser[row.UserID] = row
	}

	currentUserID := ""
	if currentUser != nil {
		currentUserID = currentUser.ID
	}

	seen := make(map[string]bool, len(participants))
	entries := make([]ContestLeaderboardEntry, 0, len(participants))
	for _, user := range participants {
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true

		entry := ContestLeaderboardEntry{
			ID:              user.ID + "_no_score",
			UserID:          user.ID,
			FirstName:       derefOr(user.FirstName, ""),
			LastName:        derefOr(user.LastName, ""),
			ProfileImageURL: derefOr(user.ProfileImageURL, ""),
			IsCurrentUser:   user.ID == currentUserID,
		}
		if row, ok := scoreByUser[user.ID]; ok {
			entry.ID = row.ID
			entry.Score = row.Score
		}
		entries = append(entries, entry)
	}

	collator := collate.New(language.English)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		nameI := displayName(entries[i].FirstName, entries[i].LastName)
		nameJ := displayName(entries[j].FirstName, entries[j].LastName)
		if cmp := collator.CompareString(nameI, nameJ); cmp != 0 {
			return cmp < 0
		}
		return entries[i].UserID < entries[j].UserID
	})

	// Equal scores share a rank; the next distinct score takes its 1-indexed
	// position, so ranks can skip numbers after a tie group.
	if len(entries) > 0 {
		currentRank := 1
		currentScore := entries[0].Score
		for i := range entries {
			if entries[i].Score < currentScore {
				currentRank = i + 1
				currentScore = entries[i].Score
			}
			entries[i].Rank = currentRank
		}
	}

	if currentUser != nil && !seen[currentUser.ID] {
		entries = append(entries, ContestLeaderboardEntry{
			ID:              currentUser.ID + "_no_prediction",
			UserID:          currentUser.ID,
			FirstName:       derefOr(currentUser.FirstName, ""),
			LastName:        derefOr(currentUser.LastName, ""),
			ProfileImageURL: derefOr(currentUser.ProfileImageURL, ""),
			Score:           0,
			Rank:            len(entries) + 1,
			IsCurrentUser:   true,
		})
	}

	return entries
}

// BuildAllTimeLeaderboard aggregates score rows across all contests.
// users provides profile data; only users with at least one score row are
// ranked, plus the current user, who is appended with zeros when absent.
// Ranks are strictly sequential: ties on total score are broken by contests
// played descending, then locale name, so equal totals still get distinct
// ranks.
func BuildAllTimeLeaderboard(rows []models.UserContestScore, users []models.User, currentUser *models.User) []AllTimeLeaderboardEntry {
	userByID := make(map[string]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	currentUserID := ""
	if currentUser != nil {
		currentUserID = currentUser.ID
		if _, ok := userByID[currentUser.ID]; !ok {
			userByID[currentUser.ID] = *currentUser
		}
	}

	type aggregate struct {
		total    int
		contests int
	}
	totals := make(map[string]*aggregate)
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		agg, ok := totals[row.UserID]
		if !ok {
			agg = &aggregate{}
			totals[row.UserID] = agg
			order = append(order, row.UserID)
		}
		agg.total += row.Score
		agg.contests++
	}

	entries := make([]AllTimeLeaderboardEntry, 0, len(totals)+1)
	for _, userID := range order {
		agg := totals[userID]
		user := userByID[userID]
		entries = append(entries, AllTimeLeaderboardEntry{
			UserID:          userID,
			FirstName:       derefOr(user.FirstName, ""),
			LastName:        derefOr(user.LastName, ""),
			ProfileImageURL: derefOr(user.ProfileImageURL, ""),
			TotalScore:      agg.total,
			ContestsPlayed:  agg.contests,
			IsCurrentUser:   userID == currentUserID,
		})
	}

	collator := collate.New(language.English)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		if entries[i].ContestsPlayed != entries[j].ContestsPlayed {
			return entries[i].ContestsPlayed > entries[j].ContestsPlayed
		}
		nameI := displayName(entries[i].FirstName, entries[i].LastName)
		nameJ := displayName(entries[j].FirstName, entries[j].LastName)
		if cmp := collator.CompareString(nameI, nameJ); cmp != 0 {
			return cmp < 0
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	if currentUser != nil {
		if _, ok := totals[currentUser.ID]; !ok {
			entries = append(entries, AllTimeLeaderboardEntry{
				UserID:          currentUser.ID,
				FirstName:       derefOr(currentUser.FirstName, ""),
				LastName:        derefOr(currentUser.LastName, ""),
				ProfileImageURL: derefOr(currentUser.ProfileImageURL, ""),
				TotalScore:      0,
				ContestsPlayed:  0,
				Rank:            len(entries) + 1,
				IsCurrentUser:   true,
			})
		}
	}

	return entries
}

// pickContestWinner selects the single top score row of one contest.
// Ties on the maximum score resolve by locale name ascending, then user id,
// so the winner is deterministic regardless of store ordering. Returns false
// when the contest has no score rows.
func pickContestWinner(rows []models.UserContestScore, users map[string]models.User) (models.UserContestScore, bool) {
	if len(rows) == 0 {
		return models.UserContestScore{}, false
	}
	collator := collate.New(language.English)
	best := rows[0]
	for _, row := range rows[1:] {
		if row.Score > best.Score {
			best = row
			continue
		}
		if row.Score < best.Score {
			continue
		}
		rowUser := users[row.UserID]
		bestUser := users[best.UserID]
		rowName := displayName(derefOr(rowUser.FirstName, ""), derefOr(rowUser.LastName, ""))
		bestName := displayName(derefOr(bestUser.FirstName, ""), derefOr(bestUser.LastName, ""))
		cmp := collator.CompareString(rowName, bestName)
		if cmp < 0 || (cmp == 0 && row.UserID < best.UserID) {
			best = row
		}
	}
	return best, true
}
