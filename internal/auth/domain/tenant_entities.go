package domain

import "time"

// Entities stored in each tenant database. They carry no tenant column:
// isolation comes from which database they are written to.

type StaffShift string

const (
	StaffShiftMorning  StaffShift = "Morning"
	StaffShiftEvening  StaffShift = "Evening"
	StaffShiftNight    StaffShift = "Night"
	StaffShiftFlexible StaffShift = "Flexible"
)

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffOnShift  StaffStatus = "on-shift"
	StaffLeave    StaffStatus = "leave"
	StaffPending  StaffStatus = "pending"
	StaffInactive StaffStatus = "inactive"
)

type Certification struct {
	Name       string     `json:"name"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	FileURL    string     `json:"fileUrl,omitempty"`
}

type Staff struct {
	ID                  string  `gorm:"primaryKey;size:26"`
	FirstName           string  `gorm:"not null"`
	LastName            string  `gorm:"not null"`
	Email               string  `gorm:"uniqueIndex;not null"`
	EmailID             *string `gorm:"uniqueIndex"`
	IDNumber            string
	PhoneNumber         string
	Role                string `gorm:"default:Staff"`
	Position            string
	Department          string      `gorm:"not null"`
	Shift               StaffShift  `gorm:"default:Flexible"`
	Status              StaffStatus `gorm:"index;default:active"`
	CertificationExpiry *time.Time
	Certifications      []Certification `gorm:"serializer:json"`
	ProfileImage        string
	Availability        string `gorm:"default:Available"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

type ShiftStatus string

const (
	ShiftScheduled  ShiftStatus = "Scheduled"
	ShiftCompleted  ShiftStatus = "Completed"
	ShiftMissed     ShiftStatus = "Missed"
	ShiftCancelled  ShiftStatus = "Cancelled"
	ShiftInProgress ShiftStatus = "In Progress"
)

type Shift struct {
	ID         string `gorm:"primaryKey;size:26"`
	StaffID    string `gorm:"index;not null"`
	Staff      Staff  `gorm:"foreignKey:StaffID"`
	Department string
	StartTime  time.Time   `gorm:"index;not null"`
	EndTime    time.Time   `gorm:"not null"`
	Status     ShiftStatus `gorm:"index;default:Scheduled"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertHigh     AlertLevel = "high"
	AlertMedium   AlertLevel = "medium"
	AlertLow      AlertLevel = "low"
	AlertInfo     AlertLevel = "info"
)

type Alert struct {
	ID          string     `gorm:"primaryKey;size:26"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Level       AlertLevel `gorm:"default:info"`
	IsRead      bool       `gorm:"index;default:false"`
	CreatedAt   time.Time  `gorm:"index"`
	UpdatedAt   time.Time
}

// User is a tenant-side staff login (distinct from the TenantAccount that
// owns the tenant).
type User struct {
	ID                string `gorm:"primaryKey;size:26"`
	FullName          string
	Email             string `gorm:"uniqueIndex;not null"`
	PhoneNumber       string
	PasswordHash      string
	Role              string
	Department        string
	DeviceFingerprint string
	LocationZone      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DashboardStats are the aggregate counts shown on a tenant dashboard.
type DashboardStats struct {
	TotalStaff        int64 `json:"totalStaff"`
	ActiveShifts      int64 `json:"activeShifts"`
	PendingApprovals  int64 `json:"pendingApprovals"`
	CompliantStaff    int64 `json:"compliantStaff"`
	NonCompliantStaff int64 `json:"nonCompliantStaff"`
	UnreadAlerts      int64 `json:"unreadAlerts"`
}
