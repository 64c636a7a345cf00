package output

import (
	"time"

	"github.com/stillpoint/breathe/internal/model"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// SessionOutput represents a session record in JSON output.
type SessionOutput struct {
	Key            string `json:"key"`
	PatternName    string `json:"pattern_name"`
	PatternSpec    string `json:"pattern_spec"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	TargetSeconds  int    `json:"target_seconds"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Completed      bool   `json:"completed"`
}

// NewSessionOutput creates a SessionOutput from a SessionRecord.
func NewSessionOutput(s *model.SessionRecord) *SessionOutput {
	out := &SessionOutput{
		Key:            s.Key,
		PatternName:    s.PatternName,
		PatternSpec:    s.PatternSpec,
		StartedAt:      s.StartedAt.Format(time.RFC3339),
		TargetSeconds:  s.TargetSeconds,
		ElapsedSeconds: s.ElapsedSeconds,
		Completed:      s.Completed,
	}
	if !s.CompletedAt.IsZero() {
		out.CompletedAt = s.CompletedAt.Format(time.RFC3339)
	}
	return out
}

// SessionsResponse represents the session history output in JSON.
type SessionsResponse struct {
	Sessions            []*SessionOutput `json:"sessions"`
	TotalCount          int              `json:"total_count"`
	ShownCount          int              `json:"shown_count"`
	TotalElapsedSeconds int              `json:"total_elapsed_seconds"`
}

// NewSessionsResponse creates a SessionsResponse from records.
func NewSessionsResponse(sessions []*model.SessionRecord, total int) *SessionsResponse {
	outputs := make([]*SessionOutput, len(sessions))
	var totalElapsed int
	for i, s := range sessions {
		outputs[i] = NewSessionOutput(s)
		totalElapsed += s.ElapsedSeconds
	}
	return &SessionsResponse{
		Sessions:            outputs,
		TotalCount:          total,
		ShownCount:          len(sessions),
		TotalElapsedSeconds: totalElapsed,
	}
}

// StatsResponse represents statistics output in JSON.
type StatsResponse struct {
	TotalSessions   int    `json:"total_sessions"`
	TotalMinutes    int    `json:"total_minutes"`
	StreakDays      int    `json:"streak_days"`
	LongestStreak   int    `json:"longest_streak"`
	LastSessionDate string `json:"last_session_date,omitempty"`
}

// NewStatsResponse creates a StatsResponse from UserStats.
func NewStatsResponse(s *model.UserStats) *StatsResponse {
	resp := &StatsResponse{
		TotalSessions: s.TotalSessions,
		TotalMinutes:  s.TotalMinutes,
		StreakDays:    s.StreakDays,
		LongestStreak: s.LongestStreak,
	}
	if !s.LastSessionDate.IsZero() {
		resp.LastSessionDate = s.LastSessionDate.Format("2006-01-02")
	}
	return resp
}

// PatternOutput represents a pattern in JSON output.
type PatternOutput struct {
	Name   string `json:"name"`
	Spec   string `json:"spec"`
	Inhale int    `json:"inhale_seconds"`
	Hold   int    `json:"hold_seconds"`
	Exhale int    `json:"exhale_seconds"`
	Custom bool   `json:"custom"`
}

// NewPatternOutput creates a PatternOutput from a Pattern.
func NewPatternOutput(p model.Pattern) *PatternOutput {
	return &PatternOutput{
		Name:   p.Name,
		Spec:   p.Spec(),
		Inhale: p.Inhale,
		Hold:   p.Hold,
		Exhale: p.Exhale,
		Custom: p.Custom,
	}
}

// PatternsResponse represents the pattern list output in JSON.
type PatternsResponse struct {
	Patterns []*PatternOutput `json:"patterns"`
}

// AchievementOutput represents an achievement in JSON output.
type AchievementOutput struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	UnlockedAt  string `json:"unlocked_at"`
}

// NewAchievementOutput creates an AchievementOutput from an Achievement.
func NewAchievementOutput(a *model.Achievement) *AchievementOutput {
	return &AchievementOutput{
		Key:         a.AchKey,
		Name:        a.Name,
		Icon:        a.Icon,
		Description: a.Description,
		UnlockedAt:  a.UnlockedAt.Format(time.RFC3339),
	}
}

// AchievementsResponse represents the achievements output in JSON.
type AchievementsResponse struct {
	Unlocked []*AchievementOutput `json:"unlocked"`
	Locked   []string             `json:"locked"`
}

// ReminderOutput represents a reminder in JSON output.
type ReminderOutput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	At        string   `json:"at"`
	Repeat    string   `json:"repeat,omitempty"`
	Completed bool     `json:"completed"`
	Notify    []string `json:"notify_before,omitempty"`
}

// NewReminderOutput creates a ReminderOutput from a Reminder.
func NewReminderOutput(r *model.Reminder) *ReminderOutput {
	return &ReminderOutput{
		ID:        r.ShortID(),
		Title:     r.Title,
		At:        r.At.Format(time.RFC3339),
		Repeat:    r.Repeat,
		Completed: r.Completed,
		Notify:    r.NotifyBefore,
	}
}

// SessionResultResponse represents the start command output in JSON.
type SessionResultResponse struct {
	Status     string               `json:"status"` // "completed", "partial", "discarded"
	Session    *SessionOutput       `json:"session,omitempty"`
	Stats      *StatsResponse       `json:"stats,omitempty"`
	NewUnlocks []*AchievementOutput `json:"new_unlocks,omitempty"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{
		Status:  status,
		Error:   errMsg,
		Message: message,
	})
}

// PrintSessions outputs session history in JSON format.
func (j *JSONFormatter) PrintSessions(sessions []*model.SessionRecord, total int) error {
	return j.JSON(NewSessionsResponse(sessions, total))
}

// PrintStats outputs statistics in JSON format.
func (j *JSONFormatter) PrintStats(s *model.UserStats) error {
	return j.JSON(NewStatsResponse(s))
}
