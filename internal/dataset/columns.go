package dataset

// Canonical column names shared by both datasets after cleaning.
// The headers are Catalan because the source files are published by the
// Catalan university system and the report keeps their vocabulary.
const (
	ColAcademicYear   = "Curs Acadèmic"
	ColUniversityType = "Tipus universitat"
	ColStudyCode      = "Sigles"
	ColStudyType      = "Tipus Estudi"
	ColBranch         = "Branca"
	ColSex            = "Sexe"
	ColIntegrated     = "Integrat S/N"
)

// Metric columns. Each cleaned dataset carries exactly one of these; the
// merged table carries both.
const (
	ColDropoutRate     = "% Abandonament a primer curs"
	ColPerformanceRate = "Taxa rendiment"
)

// Columns dropped during cleaning.
const (
	ColUniversity      = "Universitat"
	ColUnit            = "Unitat"
	ColCreditsPassed   = "Crèdits ordinaris superats"
	ColCreditsEnrolled = "Crèdits ordinaris matriculats"
)

// Dropout-dataset headers that differ from the canonical names.
const (
	ColRawUniversityNature = "Naturalesa universitat responsable"
	ColRawUniversity       = "Universitat Responsable"
	ColRawStudentSex       = "Sexe Alumne"
	ColRawCentreType       = "Tipus de centre"
)

// KeyColumns returns the composite key the datasets are grouped and merged
// on. Key order is fixed so grouped output is deterministic.
func KeyColumns() []string {
	return []string{
		ColAcademicYear,
		ColUniversityType,
		ColStudyCode,
		ColStudyType,
		ColBranch,
		ColSex,
		ColIntegrated,
	}
}
