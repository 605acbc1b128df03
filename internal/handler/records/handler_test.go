package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/practice-dashboard/internal/middleware"
	"github.com/jwalitptl/practice-dashboard/internal/model"
	"github.com/jwalitptl/practice-dashboard/internal/repository"
	"github.com/jwalitptl/practice-dashboard/internal/session"
	"github.com/jwalitptl/practice-dashboard/pkg/listctl"
	"github.com/jwalitptl/practice-dashboard/pkg/validator"
)

type patients struct {
	listctl.Store[model.Patient]
	byID map[string]model.Patient
}

func (p *patients) Get(_ context.Context, id string) (*model.Patient, error) {
	patient, ok := p.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &patient, nil
}

type notes struct {
	mu    sync.Mutex
	items []model.MedicalNote
}

func (n *notes) Create(_ context.Context, note *model.MedicalNote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	note.ID = fmt.Sprintf("note-%d", len(n.items)+1)
	note.CreatedAt = time.Now()
	n.items = append(n.items, *note)
	return nil
}

func (n *notes) ListForPatient(_ context.Context, patientID string) ([]model.MedicalNote, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.MedicalNote
	for _, note := range n.items {
		if note.PatientID == patientID {
			out = append(out, note)
		}
	}
	return out, nil
}

type files struct {
	items []model.PatientFile
}

func (f *files) Create(_ context.Context, file *model.PatientFile) error {
	file.ID = fmt.Sprintf("file-%d", len(f.items)+1)
	f.items = append(f.items, *file)
	return nil
}

func (f *files) ListForPatient(_ context.Context, patientID string) ([]model.PatientFile, error) {
	var out []model.PatientFile
	for _, file := range f.items {
		if file.PatientID == patientID {
			out = append(out, file)
		}
	}
	return out, nil
}

type conversations struct {
	items map[string]model.Conversation
}

func (c *conversations) Create(_ context.Context, conv *model.Conversation) error {
	conv.ID = fmt.Sprintf("conv-%d", len(c.items)+1)
	c.items[conv.ID] = *conv
	return nil
}

func (c *conversations) Get(_ context.Context, id string) (*model.Conversation, error) {
	conv, ok := c.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &conv, nil
}

func (c *conversations) ListForParticipant(_ context.Context, userID string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, conv := range c.items {
		for _, p := range conv.ParticipantIDs {
			if p == userID {
				out = append(out, conv)
				break
			}
		}
	}
	return out, nil
}

type messages struct {
	listctl.Store[model.Message]
	thread []model.Message
}

func (m *messages) ListForConversation(_ context.Context, conversationID string) ([]model.Message, error) {
	var out []model.Message
	for _, msg := range m.thread {
		if msg.ConversationID != nil && *msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	router        *gin.Engine
	notes         *notes
	files         *files
	conversations *conversations
	messages      *messages
	guarded       []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterBinding()

	h := &harness{
		notes:         &notes{},
		files:         &files{},
		conversations: &conversations{items: map[string]model.Conversation{}},
		messages:      &messages{},
	}
	pats := &patients{byID: map[string]model.Patient{
		"p1": {ID: "p1", FirstName: "Lena", LastName: "Okafor"},
	}}

	h.router = gin.New()
	h.router.Use(middleware.ErrorHandler(), func(c *gin.Context) {
		userID := c.GetHeader("X-Test-User")
		role := model.Role(c.GetHeader("X-Test-Role"))
		c.Set(middleware.ContextSession, &session.Session{
			User:    &model.AuthUser{ID: userID},
			Profile: &model.Profile{ID: userID, Role: role},
		})
		c.Next()
	})

	guard := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			h.guarded = append(h.guarded, name)
			c.Next()
		}
	}
	NewHandler(pats, h.notes, h.files, h.conversations, h.messages).RegisterRoutes(h.router.Group("/api/v1"), guard)
	return h
}

func (h *harness) do(t *testing.T, method, path, userID string, role model.Role, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", userID)
	req.Header.Set("X-Test-Role", string(role))
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestNotesAreAuthoredByCaller(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(t, http.MethodGet, "/api/v1/patients/p1/notes", "doc-1", model.RoleDoctor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = h.do(t, http.MethodPost, "/api/v1/patients/p1/notes", "doc-1", model.RoleDoctor,
		model.CreateMedicalNoteRequest{Title: "Follow-up", Content: "BP stable, continue current dose."})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Medical note added successfully", env.Message)

	var note model.MedicalNote
	require.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "p1", note.PatientID)
	assert.Equal(t, "doc-1", note.AuthorID)

	code, env = h.do(t, http.MethodGet, "/api/v1/patients/p1/notes", "doc-1", model.RoleDoctor, nil)
	require.Equal(t, http.StatusOK, code)
	var listed []model.MedicalNote
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)
	assert.Contains(t, h.guarded, "medical-notes")
}

func TestRecordsOfUnknownPatient(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do(t, http.MethodGet, "/api/v1/patients/missing/notes", "doc-1", model.RoleDoctor, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(t, http.MethodPost, "/api/v1/patients/missing/files", "doc-1", model.RoleDoctor,
		model.CreatePatientFileRequest{FileName: "xray.png", ContentType: "image/png", SizeBytes: 10, StoragePath: "p/xray.png"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Empty(t, h.files.items)
}

func TestCreateFileRecordsUploader(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(t, http.MethodPost, "/api/v1/patients/p1/files", "doc-1", model.RoleDoctor,
		model.CreatePatientFileRequest{FileName: "lab.pdf", ContentType: "application/pdf", SizeBytes: 2048, StoragePath: "patients/p1/lab.pdf"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "File added successfully", env.Message)
	require.Len(t, h.files.items, 1)
	assert.Equal(t, "doc-1", h.files.items[0].UploadedBy)

	code, _ = h.do(t, http.MethodPost, "/api/v1/patients/p1/files", "doc-1", model.RoleDoctor, map[string]string{"file_name": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, h.guarded, "patient-files")
}

func TestCreateConversationIncludesCaller(t *testing.T) {
	h := newHarness(t)

	code, env := h.do(t, http.MethodPost, "/api/v1/conversations", "sup-1", model.RoleSupport,
		model.CreateConversationRequest{Subject: "Lab results", ParticipantIDs: []string{"doc-1", "doc-1"}})
	require.Equal(t, http.StatusCreated, code)

	var conv model.Conversation
	require.NoError(t, json.Unmarshal(env.Data, &conv))
	assert.Equal(t, []string{"doc-1", "sup-1"}, []string(conv.ParticipantIDs))

	code, env = h.do(t, http.MethodGet, "/api/v1/conversations", "doc-1", model.RoleDoctor, nil)
	require.Equal(t, http.StatusOK, code)
	var listed []model.Conversation
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	code, env = h.do(t, http.MethodGet, "/api/v1/conversations", "doc-2", model.RoleDoctor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestConversationThreadIsLimitedToParticipants(t *testing.T) {
	h := newHarness(t)
	h.conversations.items["conv-1"] = model.Conversation{ID: "conv-1", Subject: "Referral", ParticipantIDs: []string{"doc-1", "sup-1"}}
	convID := "conv-1"
	h.messages.thread = []model.Message{
		{ID: "m1", ConversationID: &convID, SenderID: "doc-1", Subject: "Referral", Body: "See attached."},
	}

	code, env := h.do(t, http.MethodGet, "/api/v1/conversations/conv-1/messages", "sup-1", model.RoleSupport, nil)
	require.Equal(t, http.StatusOK, code)
	var thread []model.Message
	require.NoError(t, json.Unmarshal(env.Data, &thread))
	assert.Len(t, thread, 1)

	code, _ = h.do(t, http.MethodGet, "/api/v1/conversations/conv-1/messages", "doc-2", model.RoleDoctor, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(t, http.MethodGet, "/api/v1/conversations/conv-1/messages", "admin-1", model.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(t, http.MethodGet, "/api/v1/conversations/nope/messages", "admin-1", model.RoleAdmin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
