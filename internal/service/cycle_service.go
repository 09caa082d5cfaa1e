package service

import (
	"fmt"
	"time"

	"github.com/ibrasoft/command-centre/internal/config"
)

const (
	cycleLengthWeeks = 2
	cycleLengthDays  = cycleLengthWeeks * 7
)

// CycleInfo describes one bi-weekly content cycle: two weeks of
// development followed by a two-week posting window.
type CycleInfo struct {
	CycleNumber      int       `json:"cycleNumber"`
	DevelopmentStart time.Time `json:"developmentStart"`
	DevelopmentEnd   time.Time `json:"developmentEnd"`
	PostingStart     time.Time `json:"postingStart"`
	PostingEnd       time.Time `json:"postingEnd"`
}

// newCycleInfo derives a full cycle from its development start date.
func newCycleInfo(cycleNumber int, developmentStart time.Time) CycleInfo {
	developmentEnd := developmentStart.AddDate(0, 0, cycleLengthDays-1)
	postingStart := developmentEnd.AddDate(0, 0, 1)
	return CycleInfo{
		CycleNumber:      cycleNumber,
		DevelopmentStart: developmentStart,
		DevelopmentEnd:   developmentEnd,
		PostingStart:     postingStart,
		PostingEnd:       postingStart.AddDate(0, 0, cycleLengthDays-1),
	}
}

// CycleService computes bi-weekly cycles anchored on a configured
// reference start date. Pure date arithmetic, no persistence.
type CycleService struct {
	referenceStart time.Time
	now            func() time.Time
}

// NewCycleService parses the configured reference date.
func NewCycleService(cfg config.CycleConfig) (*CycleService, error) {
	ref, err := time.Parse("2006-01-02", cfg.ReferenceStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid CYCLE_REFERENCE_START_DATE: %w", err)
	}
	return &CycleService{referenceStart: ref, now: time.Now}, nil
}

// CurrentDevelopmentCycle returns the cycle whose development window
// contains today.
func (s *CycleService) CurrentDevelopmentCycle() CycleInfo {
	return s.CycleForDevelopmentDate(s.today())
}

// CurrentPostingCycle returns the cycle whose posting window contains today.
func (s *CycleService) CurrentPostingCycle() CycleInfo {
	return s.CycleForPostingDate(s.today())
}

// CycleForDevelopmentDate returns the cycle whose development window
// contains the given date.
func (s *CycleService) CycleForDevelopmentDate(date time.Time) CycleInfo {
	days := daysBetween(s.referenceStart, date)
	cyclesSinceReference := floorDiv(days, cycleLengthDays)
	start := s.referenceStart.AddDate(0, 0, cyclesSinceReference*cycleLengthDays)
	return newCycleInfo(cyclesSinceReference+1, start)
}

// CycleForPostingDate returns the cycle whose posting window contains
// the given date. Posting trails development by one cycle length.
func (s *CycleService) CycleForPostingDate(date time.Time) CycleInfo {
	days := daysBetween(s.referenceStart, date) - cycleLengthDays
	cyclesSinceReference := floorDiv(days, cycleLengthDays)
	start := s.referenceStart.AddDate(0, 0, cyclesSinceReference*cycleLengthDays)
	return newCycleInfo(cyclesSinceReference+1, start)
}

// InPostingWindow reports whether a posting date falls inside the
// cycle's posting window, boundaries included.
func (c CycleInfo) InPostingWindow(postingDate time.Time) bool {
	day := truncateToDay(postingDate)
	return !day.Before(c.PostingStart) && !day.After(c.PostingEnd)
}

func (s *CycleService) today() time.Time {
	return truncateToDay(s.now())
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)).Hours() / 24)
}

// floorDiv divides rounding toward negative infinity, so dates before
// the reference start land in negative-numbered cycles instead of
// clustering into cycle zero.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
