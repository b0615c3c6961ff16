package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository/sqlite"
	"github.com/vytor/folio/internal/services"
	"github.com/vytor/folio/internal/testutil"
)

type APISuite struct {
	suite.Suite
	db      *sql.DB
	handler http.Handler
	token   string
}

func (s *APISuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	cardRepo := sqlite.NewCardRepository(s.db)

	server := &Server{
		Auth:                   services.NewAuthService(sqlite.NewUserRepository(s.db), sqlite.NewSessionRepository(s.db), time.Hour),
		Folders:                services.NewFolderService(sqlite.NewFolderRepository(s.db)),
		Cards:                  services.NewCardService(cardRepo),
		ContextReading:         services.NewContextReadingService(cardRepo, sqlite.NewContextReadingRepository(s.db)),
		DB:                     s.db,
		ContextReadingMaxLimit: 5,
		RequestTimeout:         5 * time.Second,
	}
	s.handler = server.Routes()
	s.token = s.login("alice", "alice-password")
}

func (s *APISuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *APISuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error errorBody `json:"error"`
	}
	s.decode(rec, &body)
	return body.Error.Code
}

func (s *APISuite) login(username, password string) string {
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": username, "password": password})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var session models.Session
	s.decode(rec, &session)
	return session.Token
}

func (s *APISuite) createFolder(token, name string) models.Folder {
	rec := s.do(http.MethodPost, "/api/folders", token, map[string]string{"name": name})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var folder models.Folder
	s.decode(rec, &folder)
	return folder
}

func (s *APISuite) createCards(token, folderID string, n int) []models.Card {
	cards := make([]map[string]string, n)
	for i := range cards {
		cards[i] = map[string]string{"question": fmt.Sprintf("q%d", i), "answer": fmt.Sprintf("a%d", i)}
	}
	rec := s.do(http.MethodPost, "/api/folders/"+folderID+"/cards/batch", token, map[string]any{"cards": cards})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created []models.Card
	s.decode(rec, &created)
	return created
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/healthz", "", nil)
	s.Assert().Equal(http.StatusOK, rec.Code)
	s.Assert().Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
	s.Assert().NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/readyz", "", nil)
	s.Assert().Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestRequiresBearerToken() {
	rec := s.do(http.MethodGet, "/api/folders", "", nil)
	s.Assert().Equal(http.StatusUnauthorized, rec.Code)
	s.Assert().Equal("UNAUTHORIZED", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/folders", "not-a-session", nil)
	s.Assert().Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestMeAndLogout() {
	rec := s.do(http.MethodGet, "/api/me", s.token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var me map[string]any
	s.decode(rec, &me)
	s.Assert().Equal("alice", me["username"])
	s.Assert().NotContains(me, "password_hash")

	rec = s.do(http.MethodPost, "/api/auth/logout", s.token, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/me", s.token, nil)
	s.Assert().Equal(http.StatusUnauthorized, rec.Code)
}

func (s *APISuite) TestRegisterValidation() {
	rec := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "bob", "password": "short"})
	s.Assert().Equal(http.StatusBadRequest, rec.Code)
	s.Assert().Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "alice", "password": "long enough"})
	s.Assert().Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/auth/register", "", map[string]any{"username": "eve", "password": "long enough", "admin": true})
	s.Assert().Equal(http.StatusBadRequest, rec.Code, "unknown fields are rejected")
}

func (s *APISuite) TestFolderCRUD() {
	folder := s.createFolder(s.token, "Italian")
	s.createCards(s.token, folder.ID, 2)

	rec := s.do(http.MethodPatch, "/api/folders/"+folder.ID, s.token, map[string]string{"name": "Italiano"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/folders", s.token, nil)
	var folders []models.Folder
	s.decode(rec, &folders)
	s.Require().Len(folders, 1)
	s.Assert().Equal("Italiano", folders[0].Name)

	rec = s.do(http.MethodGet, "/api/folders/"+folder.ID+"/stats", s.token, nil)
	var stats models.FolderStats
	s.decode(rec, &stats)
	s.Assert().Equal(2, stats.TotalCards)
	s.Assert().Equal(2, stats.UnlearnedCards)

	rec = s.do(http.MethodDelete, "/api/folders/"+folder.ID, s.token, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/folders/"+folder.ID, s.token, nil)
	s.Assert().Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestOtherUsersDataIsHidden() {
	folder := s.createFolder(s.token, "Private")
	card := s.createCards(s.token, folder.ID, 1)[0]
	mallory := s.login("mallory", "mallory-password")

	for _, path := range []string{
		"/api/folders/" + folder.ID,
		"/api/folders/" + folder.ID + "/cards",
		"/api/folders/" + folder.ID + "/context-reading",
		"/api/cards/" + card.ID,
	} {
		rec := s.do(http.MethodGet, path, mallory, nil)
		s.Assert().Equal(http.StatusNotFound, rec.Code, path)
	}

	rec := s.do(http.MethodPost, "/api/cards/"+card.ID+"/learned", mallory, nil)
	s.Assert().Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/cards/"+card.ID, mallory, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/cards/"+card.ID, s.token, nil)
	s.Assert().Equal(http.StatusOK, rec.Code, "a stranger's delete leaves the card alone")

	own := s.createFolder(mallory, "Mine")
	rec = s.do(http.MethodPost, "/api/cards/"+card.ID+"/move", s.token, map[string]string{"folder_id": own.ID})
	s.Assert().Equal(http.StatusNotFound, rec.Code, "cannot move into someone else's folder")
}

func (s *APISuite) TestCardLifecycle() {
	folder := s.createFolder(s.token, "A")
	other := s.createFolder(s.token, "B")

	rec := s.do(http.MethodPost, "/api/folders/"+folder.ID+"/cards", s.token, map[string]any{
		"question":           "la mela",
		"answer":             "the apple",
		"question_sentences": "Mangio la mela.",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var card models.Card
	s.decode(rec, &card)
	s.Assert().Equal(models.DefaultEaseFactor, card.EaseFactor)

	rec = s.do(http.MethodPatch, "/api/cards/"+card.ID, s.token, map[string]any{})
	s.Assert().Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/cards/"+card.ID, s.token, map[string]any{"answer": "an apple"})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &card)
	s.Assert().Equal("la mela", card.Question)
	s.Assert().Equal("an apple", card.Answer)

	for _, action := range []string{"shown", "correct", "incorrect", "correct", "learned"} {
		rec = s.do(http.MethodPost, "/api/cards/"+card.ID+"/"+action, s.token, nil)
		s.Require().Equal(http.StatusOK, rec.Code, action)
	}
	s.decode(rec, &card)
	s.Assert().True(card.IsLearned)
	s.Assert().Equal(3, card.ReviewCount)
	s.Assert().Equal(2, card.CorrectCount)
	s.Assert().Equal(1, card.IncorrectCount)
	s.Assert().NotNil(card.LastShownAt)

	rec = s.do(http.MethodPost, "/api/cards/"+card.ID+"/move", s.token, map[string]string{"folder_id": other.ID})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &card)
	s.Assert().Equal(other.ID, card.FolderID)

	rec = s.do(http.MethodDelete, "/api/cards/"+card.ID, s.token, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, "/api/cards/"+card.ID, s.token, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodGet, "/api/cards/"+card.ID, s.token, nil)
	s.Assert().Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestBatchValidation() {
	folder := s.createFolder(s.token, "A")

	rec := s.do(http.MethodPost, "/api/folders/"+folder.ID+"/cards/batch", s.token, map[string]any{
		"cards": []map[string]string{{"question": "ok", "answer": "ok"}, {"question": "", "answer": "x"}},
	})
	s.Assert().Equal(http.StatusBadRequest, rec.Code)
	s.Assert().Equal("VALIDATION_ERROR", s.errorCode(rec))

	rec = s.do(http.MethodGet, "/api/folders/"+folder.ID+"/cards", s.token, nil)
	var cards []models.Card
	s.decode(rec, &cards)
	s.Assert().Empty(cards)
}

func (s *APISuite) TestContextReadingFlow() {
	folder := s.createFolder(s.token, "Reading")
	s.createCards(s.token, folder.ID, 5)
	path := "/api/folders/" + folder.ID + "/context-reading"

	var batch models.ContextBatch
	rec := s.do(http.MethodGet, path+"?limit=3", s.token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &batch)
	s.Assert().Len(batch.Cards, 3)
	s.Assert().Equal(models.ContextProgress{Used: 3, Total: 5}, batch.Progress)

	rec = s.do(http.MethodGet, path+"?limit=3", s.token, nil)
	s.decode(rec, &batch)
	s.Assert().Len(batch.Cards, 2)
	s.Assert().False(batch.Completed)

	rec = s.do(http.MethodGet, path+"?limit=3", s.token, nil)
	s.decode(rec, &batch)
	s.Assert().True(batch.Completed)
	s.Assert().Equal(models.ContextProgress{Used: 5, Total: 5}, batch.Progress)

	rec = s.do(http.MethodDelete, path, s.token, nil)
	s.Assert().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, path, s.token, nil)
	s.decode(rec, &batch)
	s.Assert().Len(batch.Cards, 3, "default limit")
	s.Assert().False(batch.Completed)
}

func (s *APISuite) TestContextReadingLimitValidation() {
	folder := s.createFolder(s.token, "Reading")
	path := "/api/folders/" + folder.ID + "/context-reading?limit="

	for _, limit := range []string{"0", "6", "-1"} {
		rec := s.do(http.MethodGet, path+limit, s.token, nil)
		s.Assert().Equal(http.StatusBadRequest, rec.Code, limit)
		s.Assert().Equal("VALIDATION_ERROR", s.errorCode(rec))
	}
	rec := s.do(http.MethodGet, path+"three", s.token, nil)
	s.Assert().Equal("BAD_REQUEST", s.errorCode(rec))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
