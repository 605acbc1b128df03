package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

type medicalNoteRepository struct {
	db *sqlx.DB
}

type patientFileRepository struct {
	db *sqlx.DB
}

func NewMedicalNoteRepository(db *sqlx.DB) repository.MedicalNoteRepository {
	return &medicalNoteRepository{db: db}
}

func NewPatientFileRepository(db *sqlx.DB) repository.PatientFileRepository {
	return &patientFileRepository{db: db}
}

func (r *medicalNoteRepository) Create(ctx context.Context, note *model.MedicalNote) error {
	now := dbNow()
	note.ID = uuid.NewString()
	note.CreatedAt, note.UpdatedAt = now, now

	query := `
		INSERT INTO medical_notes (id, patient_id, author_id, title, content, created_at, updated_at)
		VALUES (:id, :patient_id, :author_id, :title, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("failed to create medical note: %w", err)
	}
	return nil
}

func (r *medicalNoteRepository) ListForPatient(ctx context.Context, patientID string) ([]model.MedicalNote, error) {
	var notes []model.MedicalNote
	err := r.db.SelectContext(ctx, &notes,
		`SELECT * FROM medical_notes WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical notes: %w", err)
	}
	return notes, nil
}

func (r *patientFileRepository) Create(ctx context.Context, file *model.PatientFile) error {
	file.ID = uuid.NewString()
	file.CreatedAt = dbNow()

	query := `
		INSERT INTO patient_files (
			id, patient_id, uploaded_by, file_name, content_type, size_bytes, storage_path, created_at
		) VALUES (
			:id, :patient_id, :uploaded_by, :file_name, :content_type, :size_bytes, :storage_path, :created_at
		)`
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("failed to create patient file: %w", err)
	}
	return nil
}

func (r *patientFileRepository) ListForPatient(ctx context.Context, patientID string) ([]model.PatientFile, error) {
	var files []model.PatientFile
	err := r.db.SelectContext(ctx, &files,
		`SELECT * FROM patient_files WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient files: %w", err)
	}
	return files, nil
}
