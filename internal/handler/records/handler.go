// Package records serves the detail records hanging off list entities:
// medical notes and files of a patient, and message conversations.
package records

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/practice-dashboard/internal/handler"
	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/resource"
	apperrors "github.com/jwalitptl/practice-dashboard/pkg/errors"
	"github.com/jwalitptl/practice-dashboard/pkg/httputil"
)

// Guard returns the middleware that checks access to a named resource.
type Guard func(resource string) gin.HandlerFunc

type Handler struct {
	patients      repository.PatientRepository
	notes         repository.MedicalNoteRepository
	files         repository.PatientFileRepository
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
}

func NewHandler(
	patients repository.PatientRepository,
	notes repository.MedicalNoteRepository,
	files repository.PatientFileRepository,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
) *Handler {
	return &Handler{
		patients:      patients,
		notes:         notes,
		files:         files,
		conversations: conversations,
		messages:      messages,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, guard Guard) {
	notes := r.Group("/patients/:id/notes", guard(resource.MedicalNotes))
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
	}

	files := r.Group("/patients/:id/files", guard(resource.PatientFiles))
	{
		files.GET("", h.ListFiles)
		files.POST("", h.CreateFile)
	}

	conversations := r.Group("/conversations", guard(resource.Conversations))
	{
		conversations.GET("", h.ListConversations)
		conversations.POST("", h.CreateConversation)
		conversations.GET("/:id/messages", h.ListConversationMessages)
	}
}

// patient loads the patient named in the path or reports a 404.
func (h *Handler) patient(c *gin.Context) (*model.Patient, bool) {
	p, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Fail(c, "patient", err)
		return nil, false
	}
	return p, true
}

func (h *Handler) ListNotes(c *gin.Context) {
	p, ok := h.patient(c)
	if !ok {
		return
	}
	notes, err := h.notes.ListForPatient(c.Request.Context(), p.ID)
	if err != nil {
		handler.Fail(c, "medical note", err)
		return
	}
	if notes == nil {
		notes = []model.MedicalNote{}
	}
	httputil.RespondWithSuccess(c, "", notes)
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req model.CreateMedicalNoteRequest
	if !handler.Bind(c, &req) {
		return
	}
	p, ok := h.patient(c)
	if !ok {
		return
	}

	note := &model.MedicalNote{
		PatientID: p.ID,
		AuthorID:  middleware.CurrentSession(c).User.ID,
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		handler.Fail(c, "medical note", err)
		return
	}
	httputil.RespondWithCreated(c, "Medical note added successfully", note)
}

func (h *Handler) ListFiles(c *gin.Context) {
	p, ok := h.patient(c)
	if !ok {
		return
	}
	files, err := h.files.ListForPatient(c.Request.Context(), p.ID)
	if err != nil {
		handler.Fail(c, "patient file", err)
		return
	}
	if files == nil {
		files = []model.PatientFile{}
	}
	httputil.RespondWithSuccess(c, "", files)
}

// CreateFile records the metadata of a document already uploaded to
// object storage.
func (h *Handler) CreateFile(c *gin.Context) {
	var req model.CreatePatientFileRequest
	if !handler.Bind(c, &req) {
		return
	}
	p, ok := h.patient(c)
	if !ok {
		return
	}

	file := &model.PatientFile{
		PatientID:   p.ID,
		UploadedBy:  middleware.CurrentSession(c).User.ID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StoragePath: req.StoragePath,
	}
	if err := h.files.Create(c.Request.Context(), file); err != nil {
		handler.Fail(c, "patient file", err)
		return
	}
	httputil.RespondWithCreated(c, "File added successfully", file)
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID := middleware.CurrentSession(c).User.ID
	conversations, err := h.conversations.ListForParticipant(c.Request.Context(), userID)
	if err != nil {
		handler.Fail(c, "conversation", err)
		return
	}
	if conversations == nil {
		conversations = []model.Conversation{}
	}
	httputil.RespondWithSuccess(c, "", conversations)
}

// CreateConversation opens a conversation; the caller is always a
// participant.
func (h *Handler) CreateConversation(c *gin.Context) {
	var req model.CreateConversationRequest
	if !handler.Bind(c, &req) {
		return
	}

	participants := slices.Clone(req.ParticipantIDs)
	userID := middleware.CurrentSession(c).User.ID
	if !slices.Contains(participants, userID) {
		participants = append(participants, userID)
	}
	slices.Sort(participants)
	participants = slices.Compact(participants)

	conversation := &model.Conversation{
		Subject:        req.Subject,
		ParticipantIDs: participants,
	}
	if err := h.conversations.Create(c.Request.Context(), conversation); err != nil {
		handler.Fail(c, "conversation", err)
		return
	}
	httputil.RespondWithCreated(c, "Conversation started", conversation)
}

// ListConversationMessages returns the thread oldest first. Only
// participants and admins may read it.
func (h *Handler) ListConversationMessages(c *gin.Context) {
	ctx := c.Request.Context()
	conversation, err := h.conversations.Get(ctx, c.Param("id"))
	if err != nil {
		handler.Fail(c, "conversation", err)
		return
	}

	s := middleware.CurrentSession(c)
	isAdmin := s.Profile != nil && s.Profile.Role == model.RoleAdmin
	if !isAdmin && !slices.Contains(conversation.ParticipantIDs, s.User.ID) {
		handler.Fail(c, "conversation", apperrors.Forbidden("not a participant of this conversation", nil))
		return
	}

	messages, err := h.messages.ListForConversation(ctx, conversation.ID)
	if err != nil {
		handler.Fail(c, "message", err)
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}
	httputil.RespondWithSuccess(c, "", messages)
}
