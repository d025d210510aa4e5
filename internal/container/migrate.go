package container

import (
	"fmt"

	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/certlevel"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/saulo-duarte/learnpath/internal/progress"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"gorm.io/gorm"
)

// ruleIndexes are keyed by scope, type and subject. The ALL variant allows
// a single row per scope.
var ruleIndexes = []struct {
	table, scope string
}{
	{"course_access_rules", "course_id"},
	{"level_access_rules", "level_id"},
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&course.Course{},
		&course.Module{},
		&course.Lesson{},
		&course.ModuleQuiz{},
		&course.QuizQuestion{},
		&course.CourseAccessRule{},
		&enrollment.Enrollment{},
		&enrollment.UserCredit{},
		&enrollment.CreditHistory{},
		&quiz.QuizAttempt{},
		&quiz.QuizAnswer{},
		&progress.LessonProgress{},
		&progress.ModuleProgress{},
		&certificate.Certificate{},
		&certlevel.CertificationLevel{},
		&certlevel.LevelCourse{},
		&certlevel.LevelAccessRule{},
		&certlevel.UserCertificationLevel{},
	)
	if err != nil {
		return err
	}

	for _, ix := range ruleIndexes {
		stmts := []string{
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_all ON %[1]s (%[2]s) WHERE type = 'ALL'`, ix.table, ix.scope),
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_group ON %[1]s (%[2]s, group_id) WHERE type = 'GROUP'`, ix.table, ix.scope),
			fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_user ON %[1]s (%[2]s, user_id) WHERE type = 'USER'`, ix.table, ix.scope),
		}
		for _, stmt := range stmts {
			if err := db.Exec(stmt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
