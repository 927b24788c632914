package services

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/utils"
)

// BadgeAwarder runs the awarding pass: select candidate badges, evaluate
// their criteria against freshly read progress facts, and record new awards.
// It is designed to be called speculatively after any progress-affecting
// event; nothing here may fail the event that triggered it.
type BadgeAwarder struct {
	db       *gorm.DB
	ledger   *PointsLedger
	progress ProgressReader
}

// NewBadgeAwarder creates an awarder over the shared database.
func NewBadgeAwarder(db *gorm.DB, ledger *PointsLedger, progress ProgressReader) *BadgeAwarder {
	return &BadgeAwarder{db: db, ledger: ledger, progress: progress}
}

// CheckAndAwardBadges evaluates every candidate badge for the user and
// inserts awards for the ones that qualify. Candidates are all global badges
// plus course-scoped badges matching courseID; when courseID is nil every
// scoped badge is considered too, so correctness never depends on the hint.
//
// Failures are logged and swallowed: one badge's evaluation failing must not
// stop the remaining candidates, and the caller's triggering action must
// succeed regardless. The unique (user_id, badge_id) index is the final
// arbiter against concurrent double awards; a rejected duplicate insert is a
// successful no-op.
func (a *BadgeAwarder) CheckAndAwardBadges(userID uint, courseID *uint) {
	var candidates []models.Badge
	query := a.db.Model(&models.Badge{})
	if courseID != nil {
		query = query.Where("scope_course_id IS NULL OR scope_course_id = ?", *courseID)
	}
	if err := query.Find(&candidates).Error; err != nil {
		warnf("badge awarding: failed to load candidates for user %d: %v", userID, err)
		return
	}
	if len(candidates) == 0 {
		return
	}

	held := make(map[uint]bool)
	var awarded []models.AwardedBadge
	if err := a.db.Where("user_id = ?", userID).Find(&awarded).Error; err != nil {
		warnf("badge awarding: failed to load existing awards for user %d: %v", userID, err)
		return
	}
	for _, aw := range awarded {
		held[aw.BadgeID] = true
	}

	points, err := a.ledger.GetPoints(userID)
	if err != nil {
		warnf("badge awarding: failed to read points for user %d: %v", userID, err)
		return
	}

	// Facts are read once per distinct scope and reused across candidates so
	// every badge in the pass sees a consistent snapshot. Key 0 is the
	// account-wide scope.
	factsByScope := make(map[uint]ProgressFacts)

	for i := range candidates {
		badge := &candidates[i]
		if held[badge.ID] {
			continue
		}

		facts, err := a.factsForScope(userID, badge.ScopeCourseID, points, factsByScope)
		if err != nil {
			warnf("badge awarding: failed to read facts for badge %q user %d: %v", badge.Name, userID, err)
			continue
		}

		if !EvaluateCriteria(badge, facts) {
			continue
		}

		award := models.AwardedBadge{UserID: userID, BadgeID: badge.ID, AwardedAt: time.Now()}
		res := a.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).Create(&award)
		if res.Error != nil {
			warnf("badge awarding: failed to insert award %q for user %d: %v", badge.Name, userID, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			infof("badge awarded: user=%d badge=%q", userID, badge.Name)
			utils.InvalidateByPrefix("cache:badges:user:")
		}
	}
}

func (a *BadgeAwarder) factsForScope(userID uint, scope *uint, points int, cache map[uint]ProgressFacts) (ProgressFacts, error) {
	key := uint(0)
	if scope != nil {
		key = *scope
	}
	if facts, ok := cache[key]; ok {
		return facts, nil
	}

	lessons, err := a.progress.CountCompletedLessons(userID, scope)
	if err != nil {
		return ProgressFacts{}, err
	}
	finished, err := a.progress.CountFinishedEnrollments(userID, scope)
	if err != nil {
		return ProgressFacts{}, err
	}

	facts := ProgressFacts{
		CompletedLessons:    lessons,
		FinishedEnrollments: finished,
		TotalPoints:         points,
	}
	cache[key] = facts
	return facts, nil
}

// Logging helpers tolerate an uninitialized global logger so the awarding
// pass stays best-effort in tests and early boot.
func warnf(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Warnf(format, args...)
	}
}

func infof(format string, args ...interface{}) {
	if utils.Sugar != nil {
		utils.Sugar.Infof(format, args...)
	}
}
