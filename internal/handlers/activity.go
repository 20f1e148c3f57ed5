package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/buddyboard/buddyboard/internal/database"
	"github.com/buddyboard/buddyboard/internal/handlers/dto"
	"github.com/buddyboard/buddyboard/internal/middleware"
	"github.com/buddyboard/buddyboard/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentActivityLimit = 10

const dateLayout = "2006-01-02"

type ActivityHandler struct {
	db  *database.Database
	log *zap.SugaredLogger

	// now is swappable in tests.
	now func() time.Time
}

func NewActivityHandler(db *database.Database, log *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{db: db, log: log, now: time.Now}
}

// Complete records today's habit completion for the caller. At most one
// completion per user/group/day: the pre-check answers the common case and
// the unique index settles concurrent calls.
func (h *ActivityHandler) Complete(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	exists, err := h.db.GroupExists(groupID)
	if err != nil {
		h.log.Errorw("check group", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete habit"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	today := h.now().UTC().Format(dateLayout)

	done, err := h.db.HasCompleted(identity.UserID, groupID, today)
	if err != nil {
		h.log.Errorw("check completion", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete habit"})
		return
	}
	if done {
		c.JSON(http.StatusConflict, gin.H{"error": "Already completed today"})
		return
	}

	activity := &models.UserActivity{
		UserID:        identity.UserID,
		GroupID:       groupID,
		CompletedDate: today,
		CompletedAt:   h.now().UTC(),
	}
	if err := h.db.RecordCompletion(activity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Already completed today"})
			return
		}
		h.log.Errorw("record completion", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Habit completed successfully!",
		"completed_date": today,
	})
}

// CheckHabit reports whether the CALLER completed the group's habit today.
func (h *ActivityHandler) CheckHabit(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)

	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	today := h.now().UTC().Format(dateLayout)
	done, err := h.db.HasCompleted(identity.UserID, groupID, today)
	if err != nil {
		h.log.Errorw("check completion", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check habit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": done})
}

// Leaderboard ranks the group's users by all-time completion count.
func (h *ActivityHandler) Leaderboard(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	rows, err := h.db.GroupLeaderboard(groupID)
	if err != nil {
		h.log.Errorw("leaderboard", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

// RecentActivity returns the group's latest completions, newest first, each
// annotated with days since completion.
func (h *ActivityHandler) RecentActivity(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	rows, err := h.db.RecentGroupActivity(groupID, recentActivityLimit)
	if err != nil {
		h.log.Errorw("recent activity", "group_id", groupID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}

	today := h.now().UTC().Truncate(24 * time.Hour)
	result := make([]dto.ActivityEntry, len(rows))
	for i, row := range rows {
		entry := dto.ActivityEntry{
			UserName:      row.UserName,
			UserEmail:     row.UserEmail,
			UserPicture:   row.UserPicture,
			CompletedDate: row.CompletedDate,
		}
		if completed, err := time.Parse(dateLayout, row.CompletedDate); err == nil {
			entry.DaysAgo = int(today.Sub(completed).Hours() / 24)
		}
		result[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{"activity": result})
}
