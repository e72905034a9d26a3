package repositories

import (
	"errors"

	"ilimi/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrTermNotFound         = errors.New("term not found")
	ErrClassLevelNotFound   = errors.New("class level not found")
)

// AcademicsRepository persists academic years, terms, subjects and class
// levels. The "only one current" invariant for years and terms is enforced
// here: clearing siblings and writing the new record happen inside one
// transaction, so two concurrent saves cannot leave two current rows.
type AcademicsRepository interface {
	SaveYear(year *models.AcademicYear) error
	GetYearForSchool(id, schoolID uint) (*models.AcademicYear, error)
	ListYearsBySchool(schoolID uint) ([]models.AcademicYear, error)

	SaveTerm(term *models.Term) error
	GetTermForYear(id, yearID uint) (*models.Term, error)
	ListTermsByYear(yearID uint) ([]models.Term, error)

	CreateSubject(subject *models.Subject) error
	ListSubjectsBySchool(schoolID uint) ([]models.Subject, error)

	CreateClassLevel(level *models.ClassLevel) error
	GetClassLevelForSchool(id, schoolID uint) (*models.ClassLevel, error)
	ListClassLevelsBySchool(schoolID uint) ([]models.ClassLevel, error)

	CreateClassroom(classroom *models.Classroom) error
	ClassroomExists(schoolID, yearID, levelID uint, sectionName string) (bool, error)
	ListClassroomsByYear(schoolID, yearID uint) ([]models.Classroom, error)
}

type academicsRepository struct {
	db *gorm.DB
}

// NewAcademicsRepository creates a new instance of AcademicsRepository.
func NewAcademicsRepository(db *gorm.DB) AcademicsRepository {
	return &academicsRepository{db: db}
}

func (r *academicsRepository) SaveYear(year *models.AcademicYear) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if year.IsCurrent {
			if err := tx.Model(&models.AcademicYear{}).
				Where("school_id = ? AND is_current = true AND id <> ?", year.SchoolID, year.ID).
				Update("is_current", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(year).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *academicsRepository) GetYearForSchool(id, schoolID uint) (*models.AcademicYear, error) {
	var year models.AcademicYear
	if err := r.db.Where("id = ? AND school_id = ?", id, schoolID).First(&year).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAcademicYearNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &year, nil
}

func (r *academicsRepository) ListYearsBySchool(schoolID uint) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	if err := r.db.Where("school_id = ?", schoolID).
		Order("start_date DESC").Find(&years).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return years, nil
}

func (r *academicsRepository) SaveTerm(term *models.Term) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if term.IsCurrent {
			if err := tx.Model(&models.Term{}).
				Where("academic_year_id = ? AND is_current = true AND id <> ?", term.AcademicYearID, term.ID).
				Update("is_current", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(term).Error
	})
	if err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *academicsRepository) GetTermForYear(id, yearID uint) (*models.Term, error) {
	var term models.Term
	if err := r.db.Where("id = ? AND academic_year_id = ?", id, yearID).First(&term).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTermNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &term, nil
}

func (r *academicsRepository) ListTermsByYear(yearID uint) ([]models.Term, error) {
	var terms []models.Term
	if err := r.db.Where("academic_year_id = ?", yearID).
		Order("name ASC").Find(&terms).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return terms, nil
}

func (r *academicsRepository) CreateSubject(subject *models.Subject) error {
	if err := r.db.Create(subject).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *academicsRepository) ListSubjectsBySchool(schoolID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := r.db.Where("school_id = ?", schoolID).
		Order("subject_type ASC, name ASC").Find(&subjects).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return subjects, nil
}

func (r *academicsRepository) CreateClassLevel(level *models.ClassLevel) error {
	if err := r.db.Create(level).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *academicsRepository) GetClassLevelForSchool(id, schoolID uint) (*models.ClassLevel, error) {
	var level models.ClassLevel
	if err := r.db.Where("id = ? AND school_id = ?", id, schoolID).First(&level).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrClassLevelNotFound
		}
		return nil, ErrDatabaseOperation
	}
	return &level, nil
}

func (r *academicsRepository) ListClassLevelsBySchool(schoolID uint) ([]models.ClassLevel, error) {
	var levels []models.ClassLevel
	if err := r.db.Where("school_id = ?", schoolID).
		Order("\"order\" ASC, name ASC").Find(&levels).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return levels, nil
}

func (r *academicsRepository) CreateClassroom(classroom *models.Classroom) error {
	if err := r.db.Create(classroom).Error; err != nil {
		return ErrDatabaseOperation
	}
	return nil
}

func (r *academicsRepository) ClassroomExists(schoolID, yearID, levelID uint, sectionName string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Classroom{}).
		Where("school_id = ? AND academic_year_id = ? AND class_level_id = ? AND section_name = ?",
			schoolID, yearID, levelID, sectionName).
		Count(&count).Error; err != nil {
		return false, ErrDatabaseOperation
	}
	return count > 0, nil
}

func (r *academicsRepository) ListClassroomsByYear(schoolID, yearID uint) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.db.Preload("ClassLevel").Preload("Branch").
		Joins("JOIN class_levels ON class_levels.id = classrooms.class_level_id").
		Where("classrooms.school_id = ? AND classrooms.academic_year_id = ? AND classrooms.is_active = true",
			schoolID, yearID).
		Order("class_levels.\"order\" ASC, classrooms.section_name ASC").
		Find(&classrooms).Error; err != nil {
		return nil, ErrDatabaseOperation
	}
	return classrooms, nil
}
