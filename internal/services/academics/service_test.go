package academics

import (
	"testing"
	"time"

	"ilimi/internal/models"
	"ilimi/internal/repositories"
	"ilimi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAcademicsRepo struct {
	mock.Mock
}

func (m *MockAcademicsRepo) SaveYear(year *models.AcademicYear) error {
	return m.Called(year).Error(0)
}

func (m *MockAcademicsRepo) GetYearForSchool(id, schoolID uint) (*models.AcademicYear, error) {
	args := m.Called(id, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AcademicYear), args.Error(1)
}

func (m *MockAcademicsRepo) ListYearsBySchool(schoolID uint) ([]models.AcademicYear, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AcademicYear), args.Error(1)
}

func (m *MockAcademicsRepo) SaveTerm(term *models.Term) error {
	return m.Called(term).Error(0)
}

func (m *MockAcademicsRepo) GetTermForYear(id, yearID uint) (*models.Term, error) {
	args := m.Called(id, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Term), args.Error(1)
}

func (m *MockAcademicsRepo) ListTermsByYear(yearID uint) ([]models.Term, error) {
	args := m.Called(yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Term), args.Error(1)
}

func (m *MockAcademicsRepo) CreateSubject(subject *models.Subject) error {
	return m.Called(subject).Error(0)
}

func (m *MockAcademicsRepo) ListSubjectsBySchool(schoolID uint) ([]models.Subject, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subject), args.Error(1)
}

func (m *MockAcademicsRepo) CreateClassLevel(level *models.ClassLevel) error {
	return m.Called(level).Error(0)
}

func (m *MockAcademicsRepo) ListClassLevelsBySchool(schoolID uint) ([]models.ClassLevel, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ClassLevel), args.Error(1)
}

func (m *MockAcademicsRepo) GetClassLevelForSchool(id, schoolID uint) (*models.ClassLevel, error) {
	args := m.Called(id, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClassLevel), args.Error(1)
}

func (m *MockAcademicsRepo) CreateClassroom(classroom *models.Classroom) error {
	return m.Called(classroom).Error(0)
}

func (m *MockAcademicsRepo) ClassroomExists(schoolID, yearID, levelID uint, sectionName string) (bool, error) {
	args := m.Called(schoolID, yearID, levelID, sectionName)
	return args.Bool(0), args.Error(1)
}

func (m *MockAcademicsRepo) ListClassroomsByYear(schoolID, yearID uint) ([]models.Classroom, error) {
	args := m.Called(schoolID, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Classroom), args.Error(1)
}

type MockBranchRepo struct {
	mock.Mock
}

func (m *MockBranchRepo) Create(branch *models.Branch) error {
	return m.Called(branch).Error(0)
}

func (m *MockBranchRepo) GetByIDForSchool(id, schoolID uint) (*models.Branch, error) {
	args := m.Called(id, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Branch), args.Error(1)
}

func (m *MockBranchRepo) ListBySchool(schoolID uint) ([]models.Branch, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Branch), args.Error(1)
}

func (m *MockBranchRepo) Update(branch *models.Branch) error {
	return m.Called(branch).Error(0)
}

func (m *MockBranchRepo) MainBranch(schoolID uint) (*models.Branch, error) {
	args := m.Called(schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Branch), args.Error(1)
}

func school() *models.School {
	s := &models.School{Name: "Sunrise Academy"}
	s.ID = 3
	return s
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.Local)
}

func TestCreateYear(t *testing.T) {
	repo := new(MockAcademicsRepo)
	repo.On("SaveYear", mock.MatchedBy(func(y *models.AcademicYear) bool {
		return y.SchoolID == 3 && y.Name == "2026/2027" && y.IsCurrent
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	year, err := svc.CreateYear(school(), YearInput{
		Name:      "2026/2027",
		StartDate: date(2026, 9, 1),
		EndDate:   date(2027, 7, 31),
		IsCurrent: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, date(2026, 9, 1), year.StartDate, "dates are normalized to midnight")
	repo.AssertExpectations(t)
}

func TestCreateYear_EndBeforeStart(t *testing.T) {
	svc := NewService(new(MockAcademicsRepo), new(MockBranchRepo))

	_, err := svc.CreateYear(school(), YearInput{
		Name:      "2026/2027",
		StartDate: date(2027, 7, 31),
		EndDate:   date(2026, 9, 1),
	})

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Field)
}

func TestSetCurrentYear(t *testing.T) {
	repo := new(MockAcademicsRepo)
	year := &models.AcademicYear{SchoolID: 3, Name: "2025/2026"}
	year.ID = 11

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("SaveYear", mock.MatchedBy(func(y *models.AcademicYear) bool {
		return y.ID == 11 && y.IsCurrent
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	got, err := svc.SetCurrentYear(school(), 11)

	assert.NoError(t, err)
	assert.True(t, got.IsCurrent)
	repo.AssertExpectations(t)
}

func TestSetCurrentYear_OutsideSchool(t *testing.T) {
	repo := new(MockAcademicsRepo)
	repo.On("GetYearForSchool", uint(99), uint(3)).Return(nil, repositories.ErrAcademicYearNotFound)

	svc := NewService(repo, new(MockBranchRepo))
	_, err := svc.SetCurrentYear(school(), 99)

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "academic_year_id", verr.Field)
}

func TestCreateTerm(t *testing.T) {
	repo := new(MockAcademicsRepo)
	year := &models.AcademicYear{SchoolID: 3}
	year.ID = 11

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("SaveTerm", mock.MatchedBy(func(tm *models.Term) bool {
		return tm.AcademicYearID == 11 && tm.Name == models.Term1
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	term, err := svc.CreateTerm(school(), 11, TermInput{
		Name:      models.Term1,
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 12, 18),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.Term1, term.Name)
	repo.AssertExpectations(t)
}

func TestCreateTerm_BadName(t *testing.T) {
	svc := NewService(new(MockAcademicsRepo), new(MockBranchRepo))

	_, err := svc.CreateTerm(school(), 11, TermInput{
		Name:      "semester_1",
		StartDate: date(2026, 9, 1),
		EndDate:   date(2026, 12, 18),
	})

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestSetCurrentTerm_OutsideYear(t *testing.T) {
	repo := new(MockAcademicsRepo)
	year := &models.AcademicYear{SchoolID: 3}
	year.ID = 11

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("GetTermForYear", uint(42), uint(11)).Return(nil, repositories.ErrTermNotFound)

	svc := NewService(repo, new(MockBranchRepo))
	_, err := svc.SetCurrentTerm(school(), 11, 42)

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "term_id", verr.Field)
}

func TestCreateSubject_DefaultsToCore(t *testing.T) {
	repo := new(MockAcademicsRepo)
	repo.On("CreateSubject", mock.MatchedBy(func(s *models.Subject) bool {
		return s.SchoolID == 3 && s.SubjectType == "core" && s.IsActive
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	subject, err := svc.CreateSubject(school(), SubjectInput{Name: "Mathematics", Code: "MATH"})

	assert.NoError(t, err)
	assert.Equal(t, "core", subject.SubjectType)
	repo.AssertExpectations(t)
}

func TestCreateClassLevel(t *testing.T) {
	repo := new(MockAcademicsRepo)
	repo.On("CreateClassLevel", mock.MatchedBy(func(l *models.ClassLevel) bool {
		return l.SchoolID == 3 && l.Order == 4 && l.IsActive
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	level, err := svc.CreateClassLevel(school(), ClassLevelInput{
		Name:       "Primary 4",
		CustomName: "P4 Gold",
		Order:      4,
	})

	assert.NoError(t, err)
	assert.Equal(t, "P4 Gold", level.CustomName)
	repo.AssertExpectations(t)
}

func classLevel() *models.ClassLevel {
	return &models.ClassLevel{ID: 8, SchoolID: 3, Name: "Primary 4", CustomName: "P4 Gold"}
}

func TestCreateClassroom(t *testing.T) {
	repo := new(MockAcademicsRepo)
	year := &models.AcademicYear{SchoolID: 3}
	year.ID = 11

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("GetClassLevelForSchool", uint(8), uint(3)).Return(classLevel(), nil)
	repo.On("ClassroomExists", uint(3), uint(11), uint(8), "A").Return(false, nil)
	repo.On("CreateClassroom", mock.MatchedBy(func(cr *models.Classroom) bool {
		return cr.SchoolID == 3 && cr.AcademicYearID == 11 && cr.ClassLevelID == 8 &&
			cr.SectionName == "A" && cr.Capacity == 40 && cr.IsActive
	})).Return(nil)

	svc := NewService(repo, new(MockBranchRepo))
	classroom, err := svc.CreateClassroom(school(), 11, ClassroomInput{
		ClassLevelID: 8,
		SectionName:  "A",
	})

	assert.NoError(t, err)
	assert.Equal(t, "P4 Gold A", classroom.FullName())
	repo.AssertExpectations(t)
}

func TestCreateClassroom_DuplicateSection(t *testing.T) {
	repo := new(MockAcademicsRepo)
	year := &models.AcademicYear{SchoolID: 3}
	year.ID = 11

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("GetClassLevelForSchool", uint(8), uint(3)).Return(classLevel(), nil)
	repo.On("ClassroomExists", uint(3), uint(11), uint(8), "A").Return(true, nil)

	svc := NewService(repo, new(MockBranchRepo))
	_, err := svc.CreateClassroom(school(), 11, ClassroomInput{
		ClassLevelID: 8,
		SectionName:  "A",
	})

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "section_name", verr.Field)
	assert.Equal(t, "A classroom 'P4 Gold A' already exists for this academic year.", verr.Message)
	repo.AssertNotCalled(t, "CreateClassroom", mock.Anything)
}

func TestCreateClassroom_UnknownElectiveGroup(t *testing.T) {
	svc := NewService(new(MockAcademicsRepo), new(MockBranchRepo))

	_, err := svc.CreateClassroom(school(), 11, ClassroomInput{
		ClassLevelID:  8,
		SectionName:   "A",
		ElectiveGroup: "robotics",
	})

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "elective_group", verr.Field)
}

func TestCreateClassroom_BranchOutsideSchool(t *testing.T) {
	repo := new(MockAcademicsRepo)
	branchRepo := new(MockBranchRepo)
	year := &models.AcademicYear{SchoolID: 3}
	year.ID = 11
	branchID := uint(99)

	repo.On("GetYearForSchool", uint(11), uint(3)).Return(year, nil)
	repo.On("GetClassLevelForSchool", uint(8), uint(3)).Return(classLevel(), nil)
	branchRepo.On("GetByIDForSchool", uint(99), uint(3)).Return(nil, repositories.ErrBranchNotFound)

	svc := NewService(repo, branchRepo)
	_, err := svc.CreateClassroom(school(), 11, ClassroomInput{
		ClassLevelID: 8,
		SectionName:  "A",
		BranchID:     &branchID,
	})

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "branch_id", verr.Field)
}

func TestListClassrooms_YearOutsideSchool(t *testing.T) {
	repo := new(MockAcademicsRepo)
	repo.On("GetYearForSchool", uint(99), uint(3)).Return(nil, repositories.ErrAcademicYearNotFound)

	svc := NewService(repo, new(MockBranchRepo))
	_, err := svc.ListClassrooms(school(), 99)

	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, "academic_year_id", verr.Field)
}
