package models

import "time"

// CVFile представляет метаданные текущего резюме (CV).
// Логически это синглтон: актуальной считается последняя запись,
// сервис при замене удаляет все предыдущие.
type CVFile struct {
	ID          int64     `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"` // Каноническое имя: всегда "cv.pdf"
	ContentType string    `db:"content_type" json:"content_type"`
	ObjectKey   string    `db:"object_key" json:"-"`
	SizeBytes   int64     `db:"size_bytes" json:"size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CVCanonicalName - каноническое имя файла резюме, не зависит от
// расширения загруженного файла.
const CVCanonicalName = "cv.pdf"
