package domain

import "time"

// BestScore is the highest hidden-case pass count a user reached on a question
// within a scoring group. It never decreases.
type BestScore struct {
	UserID         string    `db:"user_id" json:"user_id"`
	QuestionID     int64     `db:"question_id" json:"question_id"`
	ScoringGroupID string    `db:"scoring_group_id" json:"course_id"`
	Score          int       `db:"score" json:"score"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
