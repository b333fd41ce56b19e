package repository

import (
	"context"
	"testing"
	"time"

	"confessio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testHotCutoff = time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)

func mustCreate(t *testing.T, db *gorm.DB, c *models.Confession) *models.Confession {
	t.Helper()
	require.NoError(t, db.Create(c).Error)
	return c
}

func topLevel(userID, content string, createdAt time.Time) *models.Confession {
	return &models.Confession{
		Content:   content,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

func replyTo(parent *models.Confession, userID, content string, createdAt time.Time) *models.Confession {
	rootID := parent.ID
	if parent.RootParentID != nil {
		rootID = *parent.RootParentID
	}
	return &models.Confession{
		Content:      content,
		UserID:       userID,
		ParentID:     &parent.ID,
		RootParentID: &rootID,
		CreatedAt:    createdAt,
	}
}

func TestConfessionRepository_ListFeed_Latest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	ctx := context.Background()

	now := time.Now()
	a := mustCreate(t, db, topLevel("u1", "first", now.Add(-2*time.Hour)))
	b := mustCreate(t, db, topLevel("u2", "second", now.Add(-1*time.Hour)))
	// replies never show up in top-level feeds
	mustCreate(t, db, replyTo(a, "u2", "a reply", now))

	feed, err := repo.ListFeed(ctx, SortLatest, "")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, b.ID, feed[0].ID)
	assert.Equal(t, a.ID, feed[1].ID)
}

func TestConfessionRepository_ListFeed_Popular(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	a := mustCreate(t, db, topLevel("u1", "two likes", now.Add(-3*time.Hour)))
	b := mustCreate(t, db, topLevel("u2", "like and dislike", now.Add(-2*time.Hour)))
	c := mustCreate(t, db, topLevel("u3", "no votes, newest", now.Add(-1*time.Hour)))

	require.NoError(t, votes.Cast(ctx, "v1", a.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v2", a.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v1", b.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v2", b.ID, models.VoteDislike))

	feed, err := repo.ListFeed(ctx, SortPopular, "")
	require.NoError(t, err)
	require.Len(t, feed, 3)

	// a scores +2; b and c both score 0, so recency breaks the tie
	assert.Equal(t, a.ID, feed[0].ID)
	assert.Equal(t, c.ID, feed[1].ID)
	assert.Equal(t, b.ID, feed[2].ID)
}

func TestConfessionRepository_ListFeed_Hot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	today := mustCreate(t, db, topLevel("u1", "fresh", now.Add(-2*time.Hour)))
	alsoToday := mustCreate(t, db, topLevel("u2", "fresh but stale votes", now.Add(-1*time.Hour)))
	yesterday := mustCreate(t, db, topLevel("u3", "old", now.Add(-48*time.Hour)))

	require.NoError(t, votes.Cast(ctx, "v1", today.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v1", alsoToday.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v2", alsoToday.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v1", yesterday.ID, models.VoteLike))

	// push alsoToday's votes behind the cutoff so they stop counting
	require.NoError(t, db.Exec(
		"UPDATE confession_votes SET updated_at = ? WHERE confession_id = ?",
		testHotCutoff.Add(-24*time.Hour), alsoToday.ID,
	).Error)

	feed, err := repo.ListFeed(ctx, SortHot, "")
	require.NoError(t, err)
	require.Len(t, feed, 2, "confessions older than today are filtered out")

	assert.Equal(t, today.ID, feed[0].ID)
	assert.Equal(t, alsoToday.ID, feed[1].ID)
	for _, c := range feed {
		assert.NotEqual(t, yesterday.ID, c.ID)
	}
}

func TestConfessionRepository_FeedOrderingSQL(t *testing.T) {
	db := setupTestDB(t)
	r := &confessionRepository{db: db, hotVoteCutoff: testHotCutoff}

	buildStmt := func(sort string) *gorm.Statement {
		var out []*models.Confession
		tx := db.Session(&gorm.Session{DryRun: true}).Model(&models.Confession{})
		return r.applySort(tx, sort).Find(&out).Statement
	}

	t.Run("popular orders by all-time vote sum", func(t *testing.T) {
		sql := buildStmt(SortPopular).SQL.String()
		require.Contains(t, sql, "ORDER BY", "ordering clause must survive into the generated SQL")
		assert.Contains(t, sql, "SUM(weight)")
		assert.Contains(t, sql, "confessions.created_at DESC")
	})

	t.Run("hot orders by windowed vote sum and binds the cutoff", func(t *testing.T) {
		stmt := buildStmt(SortHot)
		sql := stmt.SQL.String()
		require.Contains(t, sql, "ORDER BY", "ordering clause must survive into the generated SQL")
		assert.Contains(t, sql, "SUM(weight)")
		assert.Contains(t, stmt.Vars, testHotCutoff, "the vote window cutoff must be bound")
	})

	t.Run("latest orders by recency", func(t *testing.T) {
		sql := buildStmt(SortLatest).SQL.String()
		assert.Contains(t, sql, "ORDER BY confessions.created_at DESC")
	})
}

func TestConfessionRepository_ComputedColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	votes := NewVoteRepository(db)
	ctx := context.Background()

	now := time.Now()
	root := mustCreate(t, db, topLevel("author", "root", now.Add(-3*time.Hour)))
	child := mustCreate(t, db, replyTo(root, "u2", "child", now.Add(-2*time.Hour)))
	mustCreate(t, db, replyTo(child, "u3", "grandchild", now.Add(-1*time.Hour)))

	require.NoError(t, votes.Cast(ctx, "v1", root.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v2", root.ID, models.VoteLike))
	require.NoError(t, votes.Cast(ctx, "v3", root.ID, models.VoteDislike))

	t.Run("thread-wide reply count on lookup", func(t *testing.T) {
		got, err := repo.GetByID(ctx, root.ID, "v1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.LikesCount)
		assert.Equal(t, int64(1), got.DislikesCount)
		// both descendants count toward the root
		assert.Equal(t, int64(2), got.RepliesCount)
		assert.Equal(t, models.VoteLike, got.UserVote)
	})

	t.Run("viewer without a vote sees zero", func(t *testing.T) {
		got, err := repo.GetByID(ctx, root.ID, "someone-else")
		require.NoError(t, err)
		assert.Equal(t, 0, got.UserVote)
	})

	t.Run("anonymous viewer sees zero", func(t *testing.T) {
		got, err := repo.GetByID(ctx, root.ID, "")
		require.NoError(t, err)
		assert.Equal(t, 0, got.UserVote)
	})

	t.Run("direct children only in thread view", func(t *testing.T) {
		replies, err := repo.ListReplies(ctx, root.ID, "")
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, child.ID, replies[0].ID)
		// the child's own count covers its direct children
		assert.Equal(t, int64(1), replies[0].RepliesCount)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999, "")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestConfessionRepository_ListReplies_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	ctx := context.Background()

	now := time.Now()
	root := mustCreate(t, db, topLevel("author", "root", now.Add(-3*time.Hour)))
	older := mustCreate(t, db, replyTo(root, "u1", "older", now.Add(-2*time.Hour)))
	newer := mustCreate(t, db, replyTo(root, "u2", "newer", now.Add(-1*time.Hour)))

	replies, err := repo.ListReplies(ctx, root.ID, "")
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, older.ID, replies[0].ID)
	assert.Equal(t, newer.ID, replies[1].ID)
}

func TestConfessionRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	ctx := context.Background()

	now := time.Now()
	mine := mustCreate(t, db, topLevel("me", "mine", now.Add(-2*time.Hour)))
	theirs := mustCreate(t, db, topLevel("them", "theirs", now.Add(-1*time.Hour)))
	// own replies belong to the self feed too
	myReply := mustCreate(t, db, replyTo(theirs, "me", "my reply", now))

	list, err := repo.ListByUser(ctx, "me")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, myReply.ID, list[0].ID)
	assert.Equal(t, mine.ID, list[1].ID)
}

func TestConfessionRepository_DeleteOwned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfessionRepository(db, testHotCutoff)
	ctx := context.Background()

	c := mustCreate(t, db, topLevel("owner", "secret", time.Now()))

	t.Run("someone else's request is a no-op", func(t *testing.T) {
		rows, err := repo.DeleteOwned(ctx, c.ID, "intruder")
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)

		_, err = repo.GetByID(ctx, c.ID, "")
		assert.NoError(t, err)
	})

	t.Run("owner removes the row", func(t *testing.T) {
		rows, err := repo.DeleteOwned(ctx, c.ID, "owner")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		_, err = repo.GetByID(ctx, c.ID, "")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		rows, err := repo.DeleteOwned(ctx, 424242, "owner")
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}
