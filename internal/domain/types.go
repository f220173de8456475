package domain

import "time"

// AttendanceStatus is a member's reply to an event invitation.
type AttendanceStatus string

const (
	StatusGoing    AttendanceStatus = "going"
	StatusNotGoing AttendanceStatus = "not_going"
	StatusMaybe    AttendanceStatus = "maybe"
)

// Valid reports whether s is one of the three known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusNotGoing, StatusMaybe:
		return true
	}
	return false
}

// User is a club member. PageID is the record store's opaque page identifier
// and the stable foreign-key target; ID is the application-level `_id`
// sequence used for display and sorting.
type User struct {
	PageID      string `json:"id"`
	ID          int64  `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Admin       bool   `json:"admin"`
}

// Location is a venue. Immutable after creation; there is no update or
// delete path.
type Location struct {
	PageID   string `json:"id"`
	ID       int64  `json:"_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Category string `json:"category"`
	MapURL   string `json:"map_url,omitempty"`
	Tel      string `json:"tell,omitempty"`
}

// Event references exactly one Location. Its category is always the
// referenced location's category; it is never stored on the event itself.
type Event struct {
	PageID      string            `json:"id"`
	ID          int64             `json:"_id"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     *time.Time        `json:"endDate"`
	Location    *Location         `json:"location"`
	Attendances []EventAttendance `json:"attendances"`

	// LocationPageID is the raw reference as stored; the Location field is
	// resolved from it at read time.
	LocationPageID string `json:"-"`
}

// EventAttendance is the per-member reply attached to an event listing.
type EventAttendance struct {
	UserID   string           `json:"userId"`
	UserName string           `json:"userName"`
	Status   AttendanceStatus `json:"status"`
}

// Attendance is one member's reply to one event. At most one record should
// exist per (event, user) pair, enforced only by the upsert's query-then-write
// logic.
type Attendance struct {
	PageID      string           `json:"id"`
	ID          int64            `json:"_id"`
	EventPageID string           `json:"eventDateId"`
	UserPageID  string           `json:"userId"`
	Status      AttendanceStatus `json:"status"`
	Memo        string           `json:"memo,omitempty"`
}

// NewsItem is a club announcement. Read-only from this application.
type NewsItem struct {
	ID           int64  `json:"_id"`
	Category     string `json:"category"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	RegisterDate string `json:"register_date"`
}

// Identity is the client-held claimed identity returned by authentication and
// echoed back on privileged requests. It is neither signed nor verified; the
// admin flag is trusted as-declared. UserID is the store page id the client
// sends back when registering attendance.
type Identity struct {
	UserID      string `json:"userId"`
	ID          int64  `json:"_id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Admin       bool   `json:"admin"`
}
