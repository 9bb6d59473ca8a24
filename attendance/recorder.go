// Package attendance merges scan and check-in events into the per-course,
// per-date roster held in the course document, without losing concurrent
// updates for different students.
package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/docstore"
	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
)

var (
	// ErrConcurrentModification indicates a roster write lost the race on
	// every attempt. The caller should retry the one record operation.
	ErrConcurrentModification = errors.New("attendance write lost concurrent update")
	// ErrCourseNotFound indicates the course document does not exist.
	ErrCourseNotFound = errors.New("course not found")
)

// DateLayout is the calendar-date key format of the attendance map.
const DateLayout = "2006-01-02"

const recordAttempts = 5

// Recorder writes attendance entries into course documents. Every mutation
// is a read-modify-write conditioned on the document version, retried a
// bounded number of times, so concurrent recordings for different students
// on the same date are all retained.
type Recorder struct {
	store docstore.Store
	clock func() time.Time
}

func NewRecorder(store docstore.Store) *Recorder {
	return &Recorder{store: store, clock: time.Now}
}

// Record merges one (student, status) mark into the roster for the given
// date. Idempotent: recording an identical mark again leaves the roster
// unchanged. A different status for an already marked student replaces the
// existing entry; the date keeps at most one entry per student.
func (r *Recorder) Record(courseID, date, studentID string, status models.AttendanceStatus) error {
	if courseID == "" || date == "" || studentID == "" {
		return errors.New("courseID, date and studentID are required")
	}
	if !status.Valid() {
		return fmt.Errorf("invalid attendance status %q", status)
	}

	for attempt := 0; attempt < recordAttempts; attempt++ {
		doc, err := r.store.Get(courseID)
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrCourseNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: read course %s: %v", docstore.ErrUnavailable, courseID, err)
		}

		entries := entriesForDate(doc.Data, date)
		if hasEntry(entries, studentID, status) {
			// Already recorded with the same status; nothing to write.
			return nil
		}

		merged := make([]models.AttendanceEntry, 0, len(entries)+1)
		for _, e := range entries {
			if e.StudentID != studentID {
				merged = append(merged, e)
			}
		}
		merged = append(merged, models.AttendanceEntry{StudentID: studentID, Status: status})

		err = r.store.SetIfVersion(courseID, withDateEntries(doc.Data, date, merged), doc.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, docstore.ErrConflict) {
			continue
		}
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("%w: write course %s: %v", docstore.ErrUnavailable, courseID, err)
	}
	return ErrConcurrentModification
}

// QRAttendance is the bridge from a resolved pairing session: one accepted
// scan becomes exactly one Record call, marking the student present for the
// scan's calendar date.
func (r *Recorder) QRAttendance(courseID, studentID string, scannedAt time.Time) error {
	if scannedAt.IsZero() {
		scannedAt = r.clock()
	}
	return r.Record(courseID, scannedAt.Format(DateLayout), studentID, models.Present)
}

func hasEntry(entries []models.AttendanceEntry, studentID string, status models.AttendanceStatus) bool {
	for _, e := range entries {
		if e.StudentID == studentID && e.Status == status {
			return true
		}
	}
	return false
}
