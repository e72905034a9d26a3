package models

import (
	"time"
)

// Term names within an academic year.
const (
	Term1 = "term_1"
	Term2 = "term_2"
	Term3 = "term_3"
)

// AcademicYear is a school-scoped session such as "2025/2026". At most one
// year per school carries the current flag; the academics service clears the
// flag on siblings in the same transaction that sets it.
type AcademicYear struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SchoolID  uint      `gorm:"not null;uniqueIndex:idx_year_school_name" json:"school_id"`
	School    *School   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_year_school_name" json:"name"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsCurrent bool      `gorm:"default:false" json:"is_current"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Term is one of up to three terms within an academic year. The current
// flag follows the same singleton rule as AcademicYear, scoped to the year.
type Term struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	AcademicYearID uint          `gorm:"not null;uniqueIndex:idx_term_year_name" json:"academic_year_id"`
	AcademicYear   *AcademicYear `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name           string        `gorm:"not null;uniqueIndex:idx_term_year_name" json:"name"`
	StartDate      time.Time     `gorm:"not null" json:"start_date"`
	EndDate        time.Time     `gorm:"not null" json:"end_date"`
	IsCurrent      bool          `gorm:"default:false" json:"is_current"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// IsValidTermName reports whether name is one of the three term slots.
func IsValidTermName(name string) bool {
	return name == Term1 || name == Term2 || name == Term3
}

// Subject is a school-scoped catalogue entry, e.g. Mathematics (core).
type Subject struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SchoolID      uint      `gorm:"not null;uniqueIndex:idx_subject_school_name" json:"school_id"`
	School        *School   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name          string    `gorm:"not null;uniqueIndex:idx_subject_school_name" json:"name"`
	Code          string    `json:"code"`
	SubjectType   string    `gorm:"default:'core'" json:"subject_type"`
	ElectiveGroup string    `json:"elective_group"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ClassLevel is a school-scoped level such as Primary 1 or JHS 2. Order
// controls display ordering; CustomName overrides the canonical name.
type ClassLevel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SchoolID   uint      `gorm:"not null;uniqueIndex:idx_level_school_name" json:"school_id"`
	School     *School   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name       string    `gorm:"not null;uniqueIndex:idx_level_school_name" json:"name"`
	CustomName string    `json:"custom_name"`
	Order      int       `gorm:"default:0" json:"order"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DisplayName returns the custom name when set, else the canonical name.
func (c *ClassLevel) DisplayName() string {
	if c.CustomName != "" {
		return c.CustomName
	}
	return c.Name
}

// Elective stream groups for senior-high classrooms. The empty string means
// the classroom carries no elective stream.
const (
	ElectiveScience       = "science"
	ElectiveBusiness      = "business"
	ElectiveArts          = "arts"
	ElectiveHomeEconomics = "home_economics"
	ElectiveVisualArts    = "visual_arts"
	ElectiveTechnical     = "technical"
	ElectiveAgriculture   = "agriculture"
)

var electiveGroups = map[string]bool{
	ElectiveScience:       true,
	ElectiveBusiness:      true,
	ElectiveArts:          true,
	ElectiveHomeEconomics: true,
	ElectiveVisualArts:    true,
	ElectiveTechnical:     true,
	ElectiveAgriculture:   true,
}

// IsValidElectiveGroup reports whether group names a known elective stream
// or is empty.
func IsValidElectiveGroup(group string) bool {
	return group == "" || electiveGroups[group]
}

// Classroom is a concrete class within one academic year, e.g. "Primary 4
// Gold". The (year, level, section) combination is unique per school. The
// branch and form teacher links are optional.
type Classroom struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	SchoolID       uint          `gorm:"not null;uniqueIndex:idx_classroom_scope" json:"school_id"`
	School         *School       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	BranchID       *uint         `json:"branch_id"`
	Branch         *Branch       `json:"branch,omitempty"`
	AcademicYearID uint          `gorm:"not null;uniqueIndex:idx_classroom_scope" json:"academic_year_id"`
	AcademicYear   *AcademicYear `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ClassLevelID   uint          `gorm:"not null;uniqueIndex:idx_classroom_scope" json:"class_level_id"`
	ClassLevel     *ClassLevel   `gorm:"constraint:OnDelete:CASCADE" json:"class_level,omitempty"`
	SectionName    string        `gorm:"not null;uniqueIndex:idx_classroom_scope" json:"section_name"`
	ElectiveGroup  string        `json:"elective_group"`
	FormTeacherID  *uint         `json:"form_teacher_id"`
	FormTeacher    *SchoolMember `json:"-"`
	Capacity       int           `gorm:"default:40" json:"capacity"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

// FullName combines the level display name and the section, e.g. "JHS 2 B".
func (c *Classroom) FullName() string {
	if c.ClassLevel == nil {
		return c.SectionName
	}
	return c.ClassLevel.DisplayName() + " " + c.SectionName
}
