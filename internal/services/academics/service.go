// Package academics manages academic years, terms, subjects, class levels
// and classrooms for a school. Years and terms each carry a "current" flag
// that is a singleton within its scope.
package academics

import (
	"fmt"
	"time"

	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/validation"

	"github.com/jinzhu/now"
)

// YearInput describes a new academic year.
type YearInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

// TermInput describes a new term inside an academic year.
type TermInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	IsCurrent bool
}

// SubjectInput describes a catalogue subject.
type SubjectInput struct {
	Name          string
	Code          string
	SubjectType   string
	ElectiveGroup string
}

// ClassLevelInput describes a class level entry.
type ClassLevelInput struct {
	Name       string
	CustomName string
	Order      int
}

// ClassroomInput describes a classroom within an academic year.
type ClassroomInput struct {
	ClassLevelID  uint
	SectionName   string
	ElectiveGroup string
	BranchID      *uint
	FormTeacherID *uint
	Capacity      int
}

type Service interface {
	CreateYear(school *models.School, input YearInput) (*models.AcademicYear, error)
	SetCurrentYear(school *models.School, yearID uint) (*models.AcademicYear, error)
	ListYears(school *models.School) ([]models.AcademicYear, error)

	CreateTerm(school *models.School, yearID uint, input TermInput) (*models.Term, error)
	SetCurrentTerm(school *models.School, yearID, termID uint) (*models.Term, error)
	ListTerms(school *models.School, yearID uint) ([]models.Term, error)

	CreateSubject(school *models.School, input SubjectInput) (*models.Subject, error)
	ListSubjects(school *models.School) ([]models.Subject, error)

	CreateClassLevel(school *models.School, input ClassLevelInput) (*models.ClassLevel, error)
	ListClassLevels(school *models.School) ([]models.ClassLevel, error)

	CreateClassroom(school *models.School, yearID uint, input ClassroomInput) (*models.Classroom, error)
	ListClassrooms(school *models.School, yearID uint) ([]models.Classroom, error)
}

type service struct {
	repo       repositories.AcademicsRepository
	branchRepo repositories.BranchRepository
}

// NewService creates an academics service.
func NewService(repo repositories.AcademicsRepository, branchRepo repositories.BranchRepository) Service {
	return &service{repo: repo, branchRepo: branchRepo}
}

func (s *service) CreateYear(school *models.School, input YearInput) (*models.AcademicYear, error) {
	if !input.EndDate.After(input.StartDate) {
		return nil, validation.NewError("end_date", "End date must be after start date.")
	}

	year := &models.AcademicYear{
		SchoolID:  school.ID,
		Name:      input.Name,
		StartDate: now.New(input.StartDate).BeginningOfDay(),
		EndDate:   now.New(input.EndDate).BeginningOfDay(),
		IsCurrent: input.IsCurrent,
	}
	if err := s.repo.SaveYear(year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *service) SetCurrentYear(school *models.School, yearID uint) (*models.AcademicYear, error) {
	year, err := s.repo.GetYearForSchool(yearID, school.ID)
	if err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}

	year.IsCurrent = true
	if err := s.repo.SaveYear(year); err != nil {
		return nil, err
	}
	return year, nil
}

func (s *service) ListYears(school *models.School) ([]models.AcademicYear, error) {
	return s.repo.ListYearsBySchool(school.ID)
}

func (s *service) CreateTerm(school *models.School, yearID uint, input TermInput) (*models.Term, error) {
	if !models.IsValidTermName(input.Name) {
		return nil, validation.NewError("name", "Term must be one of term_1, term_2, term_3.")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, validation.NewError("end_date", "End date must be after start date.")
	}

	if _, err := s.repo.GetYearForSchool(yearID, school.ID); err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}

	term := &models.Term{
		AcademicYearID: yearID,
		Name:           input.Name,
		StartDate:      now.New(input.StartDate).BeginningOfDay(),
		EndDate:        now.New(input.EndDate).BeginningOfDay(),
		IsCurrent:      input.IsCurrent,
	}
	if err := s.repo.SaveTerm(term); err != nil {
		return nil, err
	}
	return term, nil
}

func (s *service) SetCurrentTerm(school *models.School, yearID, termID uint) (*models.Term, error) {
	if _, err := s.repo.GetYearForSchool(yearID, school.ID); err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}

	term, err := s.repo.GetTermForYear(termID, yearID)
	if err != nil {
		if err == repositories.ErrTermNotFound {
			return nil, validation.NewError("term_id", "Term not found in this academic year.")
		}
		return nil, err
	}

	term.IsCurrent = true
	if err := s.repo.SaveTerm(term); err != nil {
		return nil, err
	}
	return term, nil
}

func (s *service) ListTerms(school *models.School, yearID uint) ([]models.Term, error) {
	if _, err := s.repo.GetYearForSchool(yearID, school.ID); err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}
	return s.repo.ListTermsByYear(yearID)
}

func (s *service) CreateSubject(school *models.School, input SubjectInput) (*models.Subject, error) {
	subjectType := input.SubjectType
	if subjectType == "" {
		subjectType = "core"
	}
	subject := &models.Subject{
		SchoolID:      school.ID,
		Name:          input.Name,
		Code:          input.Code,
		SubjectType:   subjectType,
		ElectiveGroup: input.ElectiveGroup,
		IsActive:      true,
	}
	if err := s.repo.CreateSubject(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *service) ListSubjects(school *models.School) ([]models.Subject, error) {
	return s.repo.ListSubjectsBySchool(school.ID)
}

func (s *service) CreateClassLevel(school *models.School, input ClassLevelInput) (*models.ClassLevel, error) {
	level := &models.ClassLevel{
		SchoolID:   school.ID,
		Name:       input.Name,
		CustomName: input.CustomName,
		Order:      input.Order,
		IsActive:   true,
	}
	if err := s.repo.CreateClassLevel(level); err != nil {
		return nil, err
	}
	return level, nil
}

func (s *service) ListClassLevels(school *models.School) ([]models.ClassLevel, error) {
	return s.repo.ListClassLevelsBySchool(school.ID)
}

func (s *service) CreateClassroom(school *models.School, yearID uint, input ClassroomInput) (*models.Classroom, error) {
	if !models.IsValidElectiveGroup(input.ElectiveGroup) {
		return nil, validation.NewError("elective_group", "Unknown elective group.")
	}

	if _, err := s.repo.GetYearForSchool(yearID, school.ID); err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}

	level, err := s.repo.GetClassLevelForSchool(input.ClassLevelID, school.ID)
	if err != nil {
		if err == repositories.ErrClassLevelNotFound {
			return nil, validation.NewError("class_level_id", "Class level not found in your school.")
		}
		return nil, err
	}

	if input.BranchID != nil {
		if _, err := s.branchRepo.GetByIDForSchool(*input.BranchID, school.ID); err != nil {
			if err == repositories.ErrBranchNotFound {
				return nil, validation.NewError("branch_id", "Branch not found in your school.")
			}
			return nil, err
		}
	}

	taken, err := s.repo.ClassroomExists(school.ID, yearID, level.ID, input.SectionName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation.NewError("section_name",
			fmt.Sprintf("A classroom '%s %s' already exists for this academic year.",
				level.DisplayName(), input.SectionName))
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = 40
	}

	classroom := &models.Classroom{
		SchoolID:       school.ID,
		BranchID:       input.BranchID,
		AcademicYearID: yearID,
		ClassLevelID:   level.ID,
		SectionName:    input.SectionName,
		ElectiveGroup:  input.ElectiveGroup,
		FormTeacherID:  input.FormTeacherID,
		Capacity:       capacity,
		IsActive:       true,
	}
	if err := s.repo.CreateClassroom(classroom); err != nil {
		return nil, err
	}
	classroom.ClassLevel = level
	return classroom, nil
}

func (s *service) ListClassrooms(school *models.School, yearID uint) ([]models.Classroom, error) {
	if _, err := s.repo.GetYearForSchool(yearID, school.ID); err != nil {
		if err == repositories.ErrAcademicYearNotFound {
			return nil, validation.NewError("academic_year_id", "Academic year not found in your school.")
		}
		return nil, err
	}
	return s.repo.ListClassroomsByYear(school.ID, yearID)
}
