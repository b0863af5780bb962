package services

import (
	"errors"
	"testing"

	"factlab/internal/models"
	"factlab/internal/voteschema"
)

func TestCastVoteAndResults(t *testing.T) {
	setupTestDB(t)
	news := seedNews(t, "금리 인하 보도", models.AnalysisFact)
	alice := seedUser(t, "alice")

	results, err := CastVote(news.ID, alice.ID, voteschema.OptCompleteFact)
	if err != nil {
		t.Fatalf("cast vote: %v", err)
	}
	if results.Total != 1 {
		t.Fatalf("total = %d, want 1", results.Total)
	}
	if results.Counts[voteschema.OptCompleteFact] != 1 {
		t.Fatalf("complete_fact count = %d, want 1", results.Counts[voteschema.OptCompleteFact])
	}
	// Zero-filled options must be present, not missing.
	for _, key := range voteschema.Resolve(models.AnalysisFact).Keys() {
		if _, ok := results.Counts[key]; !ok {
			t.Errorf("counts missing option %s", key)
		}
	}
	if results.Percentages[voteschema.OptCompleteFact] != 100 {
		t.Errorf("complete_fact percentage = %d, want 100", results.Percentages[voteschema.OptCompleteFact])
	}
}

func TestCastVoteDuplicateLeavesCountsUnchanged(t *testing.T) {
	setupTestDB(t)
	news := seedNews(t, "예산안 통과", models.AnalysisFact)
	alice := seedUser(t, "alice")

	if _, err := CastVote(news.ID, alice.ID, voteschema.OptCompleteFact); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	// A second vote with a different option is still a duplicate; ballots
	// are immutable, not updatable.
	_, err := CastVote(news.ID, alice.ID, voteschema.OptCompleteDoubt)
	if !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("second vote err = %v, want ErrDuplicateVote", err)
	}

	results, err := VoteResultsFor(news.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if results.Total != 1 {
		t.Errorf("total = %d after duplicate, want 1", results.Total)
	}
	if results.Counts[voteschema.OptCompleteFact] != 1 || results.Counts[voteschema.OptCompleteDoubt] != 0 {
		t.Errorf("counts mutated by duplicate vote: %v", results.Counts)
	}
}

func TestCastVoteRejectsForeignOption(t *testing.T) {
	setupTestDB(t)
	news := seedNews(t, "당 대표 발언", models.AnalysisBias)
	alice := seedUser(t, "alice")

	// complete_fact belongs to the factual schema, not the bias one.
	_, err := CastVote(news.ID, alice.ID, voteschema.OptCompleteFact)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	results, err := VoteResultsFor(news.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if results.Total != 0 {
		t.Errorf("total = %d after rejected vote, want 0", results.Total)
	}

	if _, err := CastVote(news.ID, alice.ID, "right_bias"); err != nil {
		t.Fatalf("valid bias vote: %v", err)
	}
}

func TestCastVoteUnknownContent(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")

	_, err := CastVote(9999, alice.ID, voteschema.OptCompleteFact)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestBoardPostUsesDefaultSchema(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	post := seedPost(t, "자유게시판 글", alice)

	results, err := CastVote(post.ID, alice.ID, voteschema.OptSlightDoubt)
	if err != nil {
		t.Fatalf("vote on board post: %v", err)
	}
	if results.Analysis != models.AnalysisFact {
		t.Errorf("board post resolved to %s schema, want default factual", results.Analysis)
	}
}

func TestUserBallot(t *testing.T) {
	setupTestDB(t)
	news := seedNews(t, "태풍 북상", models.AnalysisFact)
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	if _, err := CastVote(news.ID, alice.ID, voteschema.OptPartialFact); err != nil {
		t.Fatalf("cast vote: %v", err)
	}

	key, err := UserBallot(news.ID, alice.ID)
	if err != nil {
		t.Fatalf("user ballot: %v", err)
	}
	if key != voteschema.OptPartialFact {
		t.Errorf("alice's ballot = %q, want partial_fact", key)
	}

	key, err = UserBallot(news.ID, bob.ID)
	if err != nil {
		t.Fatalf("user ballot (not voted): %v", err)
	}
	if key != "" {
		t.Errorf("bob's ballot = %q, want empty", key)
	}
}

func TestUserBallotsHistory(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	first := seedNews(t, "뉴스 1", models.AnalysisFact)
	second := seedNews(t, "뉴스 2", models.AnalysisComprehensive)

	if _, err := CastVote(first.ID, alice.ID, voteschema.OptUnknown); err != nil {
		t.Fatalf("vote 1: %v", err)
	}
	if _, err := CastVote(second.ID, alice.ID, "problematic"); err != nil {
		t.Fatalf("vote 2: %v", err)
	}

	ballots, err := UserBallots(alice.ID, 0)
	if err != nil {
		t.Fatalf("user ballots: %v", err)
	}
	if len(ballots) != 2 {
		t.Fatalf("got %d ballots, want 2", len(ballots))
	}
}

func TestCastVoteBumpsContentCounter(t *testing.T) {
	setupTestDB(t)
	news := seedNews(t, "반도체 수출", models.AnalysisFact)
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")

	if _, err := CastVote(news.ID, alice.ID, voteschema.OptCompleteFact); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := CastVote(news.ID, bob.ID, voteschema.OptUnknown); err != nil {
		t.Fatalf("vote: %v", err)
	}

	var reloaded models.Content
	if err := dbFirst(&reloaded, news.ID); err != nil {
		t.Fatalf("reload content: %v", err)
	}
	if reloaded.VoteCount != 2 {
		t.Errorf("vote_count = %d, want 2", reloaded.VoteCount)
	}
}
