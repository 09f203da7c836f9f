package mapper

import (
	"encoding/json"

	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/model"

	"gorm.io/datatypes"
)

type ImportJobMapper struct{}

func NewImportJobMapper() *ImportJobMapper {
	return &ImportJobMapper{}
}

type analysisJSON struct {
	FileName    string `json:"fileName"`
	Title       string `json:"title"`
	WordCount   int    `json:"wordCount"`
	ContentType string `json:"contentType"`
}

type failureJSON struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}

func (m *ImportJobMapper) ToEntity(j *model.ImportJob) *entity.ImportJob {
	if j == nil {
		return nil
	}

	var analysis []analysisJSON
	if len(j.Analysis) > 0 {
		_ = json.Unmarshal(j.Analysis, &analysis)
	}
	var failures []failureJSON
	if len(j.Failures) > 0 {
		_ = json.Unmarshal(j.Failures, &failures)
	}

	e := &entity.ImportJob{
		Id:            j.Id,
		UserId:        j.UserId,
		CourseTitle:   j.CourseTitle,
		Status:        entity.ImportJobStatus(j.Status),
		FileCount:     j.FileCount,
		LessonCount:   j.LessonCount,
		SectionsCount: j.SectionsCount,
		CreatedAt:     j.CreatedAt,
	}
	for _, a := range analysis {
		e.Analysis = append(e.Analysis, entity.ImportFileAnalysis(a))
	}
	for _, f := range failures {
		e.Failures = append(e.Failures, entity.ImportFileFailure(f))
	}
	return e
}

func (m *ImportJobMapper) ToModel(j *entity.ImportJob) *model.ImportJob {
	if j == nil {
		return nil
	}

	analysis := make([]analysisJSON, len(j.Analysis))
	for i, a := range j.Analysis {
		analysis[i] = analysisJSON(a)
	}
	failures := make([]failureJSON, len(j.Failures))
	for i, f := range j.Failures {
		failures[i] = failureJSON(f)
	}
	analysisRaw, _ := json.Marshal(analysis)
	failuresRaw, _ := json.Marshal(failures)

	return &model.ImportJob{
		Id:            j.Id,
		UserId:        j.UserId,
		CourseTitle:   j.CourseTitle,
		Status:        string(j.Status),
		FileCount:     j.FileCount,
		LessonCount:   j.LessonCount,
		SectionsCount: j.SectionsCount,
		Analysis:      datatypes.JSON(analysisRaw),
		Failures:      datatypes.JSON(failuresRaw),
		CreatedAt:     j.CreatedAt,
	}
}

func (m *ImportJobMapper) ToEntities(jobs []*model.ImportJob) []*entity.ImportJob {
	entities := make([]*entity.ImportJob, len(jobs))
	for i, j := range jobs {
		entities[i] = m.ToEntity(j)
	}
	return entities
}
