package enum

// QualityGrade is the quality classification assigned to a stock lot at
// collection time.
type QualityGrade string

const (
	QualityGradeA QualityGrade = "A"
	QualityGradeB QualityGrade = "B"
	QualityGradeC QualityGrade = "C"
)

// IsValid reports whether the grade is one of the known classifications
func (g QualityGrade) IsValid() bool {
	switch g {
	case QualityGradeA, QualityGradeB, QualityGradeC:
		return true
	}
	return false
}
