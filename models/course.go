package models

import "time"

// Course groups lessons under an instructor.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatorID   uint      `gorm:"index;not null" json:"creator_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Lessons     []Lesson  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lessons,omitempty"`
}

// Lesson is a single content item inside a course.
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment links a user to a course. Finished is set once through the
// course-finish path and never cleared.
type Enrollment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index:idx_enroll_user_course,unique;not null" json:"user_id"`
	CourseID   uint       `gorm:"index:idx_enroll_user_course,unique;not null" json:"course_id"`
	Finished   bool       `gorm:"not null;default:false" json:"finished"`
	FinishedAt *time.Time `json:"finished_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// LessonProgress records one completed lesson per user. The unique pair makes
// repeated completion requests no-ops. CourseID is denormalized so scoped
// progress counts need no join.
type LessonProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_progress_user_lesson,unique;not null" json:"user_id"`
	LessonID    uint      `gorm:"index:idx_progress_user_lesson,unique;not null" json:"lesson_id"`
	CourseID    uint      `gorm:"index;not null" json:"course_id"`
	CompletedAt time.Time `json:"completed_at"`
}
