package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-client/internal/models"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
)

type classroomServiceMock struct {
	items       []models.Classroom
	joinResp    *models.Classroom
	joinErr     error
	joinCode    string
	removed     []*models.Classroom
	detail      *models.ClassroomDetail
	detailErr   error
	submissions bool
}

func (m *classroomServiceMock) Load(ctx context.Context) []models.Classroom { return m.items }

func (m *classroomServiceMock) Join(ctx context.Context, code string) (*models.Classroom, error) {
	m.joinCode = code
	return m.joinResp, m.joinErr
}

func (m *classroomServiceMock) RemoveClassroom(ctx context.Context, target *models.Classroom) bool {
	m.removed = append(m.removed, target)
	return target != nil
}

func (m *classroomServiceMock) Detail(ctx context.Context, id string) (*models.ClassroomDetail, error) {
	return m.detail, m.detailErr
}

func (m *classroomServiceMock) Assignments(ctx context.Context, id string, submissions bool) ([]models.Assignment, error) {
	m.submissions = submissions
	return []models.Assignment{}, nil
}

func (m *classroomServiceMock) Materials(ctx context.Context, id string) ([]models.Material, error) {
	return []models.Material{}, nil
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestClassroomHandlerList(t *testing.T) {
	handler := NewClassroomHandler(&classroomServiceMock{items: []models.Classroom{
		models.NormalizeClassroom(models.Record{"id": "A", "code": "ABC123"}),
	}})
	c, w := newTestContext(http.MethodGet, "/api/v1/classrooms", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeEnvelope(t, w)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "ABC123", first["classCode"])
	assert.Equal(t, float64(1), body["meta"].(map[string]interface{})["total"])
}

func TestClassroomHandlerJoinMissingCode(t *testing.T) {
	svc := &classroomServiceMock{}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodPost, "/api/v1/classrooms", []byte(`{}`))

	handler.Join(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.joinCode)
}

func TestClassroomHandlerJoinDuplicate(t *testing.T) {
	handler := NewClassroomHandler(&classroomServiceMock{joinErr: appErrors.Clone(appErrors.ErrAlreadyJoined, "")})
	c, w := newTestContext(http.MethodPost, "/api/v1/classrooms", []byte(`{"code":"abc123"}`))

	handler.Join(c)
	require.Equal(t, http.StatusConflict, w.Code)
	errBody := decodeEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_JOINED", errBody["code"])
}

func TestClassroomHandlerJoinCreated(t *testing.T) {
	joined := models.NormalizeClassroom(models.Record{"id": "B", "name": "Bio", "code": "XYZ999"})
	svc := &classroomServiceMock{joinResp: &joined}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodPost, "/api/v1/classrooms", []byte(`{"code":"xyz999"}`))

	handler.Join(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "xyz999", svc.joinCode)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Bio", data["name"])
}

func TestClassroomHandlerRemove(t *testing.T) {
	svc := &classroomServiceMock{}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodDelete, "/api/v1/classrooms/A", nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}

	handler.Remove(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["success"])
	require.Len(t, svc.removed, 1)
	assert.Equal(t, "A", svc.removed[0].ID)
}

func TestClassroomHandlerRemoveByCodeQuery(t *testing.T) {
	svc := &classroomServiceMock{}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodDelete, "/api/v1/classrooms?code=zzz111", nil)

	handler.Remove(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.removed, 1)
	assert.Empty(t, svc.removed[0].ID)
	assert.Equal(t, "zzz111", svc.removed[0].Code)
}

func TestClassroomHandlerRemoveWithoutTarget(t *testing.T) {
	svc := &classroomServiceMock{}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodDelete, "/api/v1/classrooms", nil)

	handler.Remove(c)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["success"])
	require.Len(t, svc.removed, 1)
	assert.Nil(t, svc.removed[0])
}

func TestClassroomHandlerStaleDetail(t *testing.T) {
	handler := NewClassroomHandler(&classroomServiceMock{detail: &models.ClassroomDetail{
		Classroom: models.NormalizeClassroom(models.Record{"id": "A"}),
		Stale:     true,
	}})
	c, w := newTestContext(http.MethodGet, "/api/v1/classrooms/A", nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeEnvelope(t, w)["meta"].(map[string]interface{})["stale"])
}

func TestClassroomHandlerSubmissionQuery(t *testing.T) {
	svc := &classroomServiceMock{}
	handler := NewClassroomHandler(svc)
	c, w := newTestContext(http.MethodGet, "/api/v1/classrooms/A/assignments?type=submission", nil)
	c.Params = gin.Params{{Key: "id", Value: "A"}}

	handler.Assignments(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.submissions)
}
