package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"traverse-api/internal/models"
	"traverse-api/internal/traverse"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTraverseService is a mock implementation of the TraverseService interface
type MockTraverseService struct {
	mock.Mock
}

func (m *MockTraverseService) Compute(ctx context.Context, req models.AdjustRequest) (*models.Traverse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Traverse), args.Error(1)
}

func (m *MockTraverseService) Submit(ctx context.Context, req models.AdjustRequest) (*models.Traverse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*models.Traverse), args.Error(1)
}

func (m *MockTraverseService) Get(ctx context.Context, id uuid.UUID) (*models.Traverse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Traverse), args.Error(1)
}

func (m *MockTraverseService) List(ctx context.Context, limit int) ([]models.TraverseSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.TraverseSummary), args.Error(1)
}

var traverseID = uuid.MustParse("8a3c1f52-0d4e-4b7a-a1c9-5e6f7a8b9c0d")

func adjusted(closeLoop bool) *models.Traverse {
	legs := []models.Leg{
		traverse.NewLeg("RD1", 100, 0),
		traverse.NewLeg("RD2", 100, 90),
	}
	return &models.Traverse{
		ID:         traverseID,
		Name:       "site",
		Adjustment: *traverse.Adjust(legs, models.Coordinate{}, closeLoop),
	}
}

func serve(h gin.HandlerFunc, method, route, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, h)

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestTraverseHandler_Compute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	expectedReq := models.AdjustRequest{
		Name: "site",
		Table: models.Table{
			Columns: []string{"code", "distance", "bearing"},
			Rows:    [][]string{{"RD1", "100", "0"}, {"RD2", "100.5", "90"}},
		},
		Start:     models.Coordinate{Easting: 10, Northing: 20},
		CloseLoop: true,
	}

	tests := []struct {
		name           string
		body           string
		mockTraverse   *models.Traverse
		mockError      error
		expectedStatus int
		check          func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "invalid body",
			body:           `{"rows": 3}`,
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "invalid request body", body["error"])
			},
		},
		{
			name:           "successful adjustment",
			body:           `{"name":"site","columns":["code","distance","bearing"],"rows":[["RD1",100,"0"],["RD2",100.5,90]],"start_x":10,"start_y":20,"close_loop":true}`,
			mockTraverse:   adjusted(false),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, traverseID.String(), body["id"])
				assert.Len(t, body["legs"], 2)
				summary := body["summary"].(map[string]interface{})
				assert.InDelta(t, 141.42135623730951, summary["linear_misclosure"], 1e-9)
				assert.InDelta(t, 200/141.42135623730951, summary["precision_ratio"], 1e-9)
				assert.Equal(t, false, summary["perfect_closure"])
			},
		},
		{
			name:           "missing columns",
			body:           `{"name":"site","columns":["code","distance","bearing"],"rows":[["RD1",100,"0"],["RD2",100.5,90]],"start_x":10,"start_y":20,"close_loop":true}`,
			mockTraverse:   nil,
			mockError:      &traverse.MissingColumnsError{Observation: []string{"bearing"}, Coordinate: []string{"northing", "easting"}},
			expectedStatus: http.StatusUnprocessableEntity,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "unrecognized table columns", body["error"])
				missing := body["missing"].(map[string]interface{})
				assert.Equal(t, []interface{}{"bearing"}, missing["observation"])
			},
		},
		{
			name:           "service error",
			body:           `{"name":"site","columns":["code","distance","bearing"],"rows":[["RD1",100,"0"],["RD2",100.5,90]],"start_x":10,"start_y":20,"close_loop":true}`,
			mockTraverse:   nil,
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "internal server error", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockTraverseService)
			handler := NewTraverseHandler(mockSvc, 0)
			bound := tt.expectedStatus != http.StatusBadRequest
			if bound {
				mockSvc.On("Compute", mock.Anything, expectedReq).Return(tt.mockTraverse, tt.mockError)
			}

			// Execute
			w := serve(handler.Compute, http.MethodPost, "/traverses/compute", "/traverses/compute",
				bytes.NewBufferString(tt.body), "application/json")

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.check(t, decode(t, w))

			if bound {
				mockSvc.AssertExpectations(t)
			}
		})
	}
}

func TestTraverseHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockSvc := new(MockTraverseService)
	handler := NewTraverseHandler(mockSvc, 0)
	mockSvc.On("Submit", mock.Anything, mock.AnythingOfType("models.AdjustRequest")).Return(adjusted(true), nil)

	w := serve(handler.Submit, http.MethodPost, "/traverses", "/traverses",
		bytes.NewBufferString(`{"columns":["dist","brg"],"rows":[[100,0],[100,90]],"close_loop":true}`), "application/json")

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Len(t, body["legs"], 3)
	assert.NotNil(t, body["closing_vector"])
	mockSvc.AssertExpectations(t)
}

func TestTraverseHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	degenerate := &models.Traverse{ID: traverseID, Adjustment: *traverse.Adjust(nil, models.Coordinate{}, false)}

	tests := []struct {
		name           string
		id             string
		mockTraverse   *models.Traverse
		mockError      error
		expectedStatus int
		expectedError  string
	}{
		{name: "invalid id", id: "not-a-uuid", expectedStatus: http.StatusBadRequest, expectedError: "invalid traverse id"},
		{name: "found", id: traverseID.String(), mockTraverse: adjusted(false), expectedStatus: http.StatusOK},
		{name: "degenerate", id: traverseID.String(), mockTraverse: degenerate, expectedStatus: http.StatusOK},
		{name: "not found", id: traverseID.String(), mockTraverse: nil, expectedStatus: http.StatusNotFound, expectedError: "traverse not found"},
		{name: "service error", id: traverseID.String(), mockError: assert.AnError, expectedStatus: http.StatusInternalServerError, expectedError: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockTraverseService)
			handler := NewTraverseHandler(mockSvc, 0)
			if tt.expectedStatus != http.StatusBadRequest {
				mockSvc.On("Get", mock.Anything, traverseID).Return(tt.mockTraverse, tt.mockError)
			}

			w := serve(handler.Get, http.MethodGet, "/traverses/:id", "/traverses/"+tt.id, nil, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decode(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, body["error"])
			}
			if tt.name == "degenerate" {
				summary := body["summary"].(map[string]interface{})
				assert.Equal(t, models.ErrDegenerateTraverse.Error(), summary["warning"])
				assert.NotContains(t, summary, "precision_ratio")
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestTraverseHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	summaries := []models.TraverseSummary{{ID: traverseID, Name: "site", LegCount: 2}}

	mockSvc := new(MockTraverseService)
	handler := NewTraverseHandler(mockSvc, 0)
	mockSvc.On("List", mock.Anything, 5).Return(summaries, nil)

	w := serve(handler.List, http.MethodGet, "/traverses", "/traverses?limit=5", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.TraverseSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "site", got[0].Name)

	w = serve(handler.List, http.MethodGet, "/traverses", "/traverses?limit=ten", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockSvc.AssertExpectations(t)
}

func TestTraverseHandler_Export(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		format         string
		expectedStatus int
		contentType    string
	}{
		{name: "csv", format: "csv", expectedStatus: http.StatusOK, contentType: "text/csv"},
		{name: "dxf", format: "dxf", expectedStatus: http.StatusOK, contentType: "application/dxf"},
		{name: "geojson", format: "geojson", expectedStatus: http.StatusOK, contentType: "application/geo+json"},
		{name: "unknown format", format: "shp", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockTraverseService)
			handler := NewTraverseHandler(mockSvc, 0)
			if tt.expectedStatus == http.StatusOK {
				mockSvc.On("Get", mock.Anything, traverseID).Return(adjusted(true), nil)
			}

			w := serve(handler.Export, http.MethodGet, "/traverses/:id/export/:format",
				"/traverses/"+traverseID.String()+"/export/"+tt.format, nil, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
				assert.Equal(t, `attachment; filename="site.`+tt.format+`"`, w.Header().Get("Content-Disposition"))
				assert.NotZero(t, w.Body.Len())
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestTraverseHandler_Upload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	csv := "Code,Dist,Brg\nRD1,100,0\nRD2,100,90\n"
	expectedReq := models.AdjustRequest{
		Name: "survey.csv",
		Table: models.Table{
			Columns: []string{"Code", "Dist", "Brg"},
			Rows:    [][]string{{"RD1", "100", "0"}, {"RD2", "100", "90"}},
		},
		Start:     models.Coordinate{Easting: 500.5, Northing: 1000},
		CloseLoop: true,
	}

	tests := []struct {
		name           string
		filename       string
		content        string
		fields         map[string]string
		callsService   bool
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "csv upload",
			filename:       "survey.csv",
			content:        csv,
			fields:         map[string]string{"start_x": "500.5", "start_y": "1000", "close_loop": "true"},
			callsService:   true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing file",
			fields:         map[string]string{"start_x": "1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "missing required form file 'file'",
		},
		{
			name:           "invalid start",
			filename:       "survey.csv",
			content:        csv,
			fields:         map[string]string{"start_x": "east"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid start_x format",
		},
		{
			name:           "invalid close flag",
			filename:       "survey.csv",
			content:        csv,
			fields:         map[string]string{"close_loop": "maybe"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid close_loop format",
		},
		{
			name:           "unsupported type",
			filename:       "plan.png",
			content:        "\x89PNG",
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedError:  "unsupported file type, expected csv, xlsx or dxf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockTraverseService)
			handler := NewTraverseHandler(mockSvc, 1<<20)
			if tt.callsService {
				mockSvc.On("Submit", mock.Anything, expectedReq).Return(adjusted(true), nil)
			}

			body, contentType := multipartBody(t, tt.filename, tt.content, tt.fields)
			w := serve(handler.Upload, http.MethodPost, "/traverses/upload", "/traverses/upload", body, contentType)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decode(t, w)["error"])
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "RD1", cellString("RD1"))
	assert.Equal(t, "100.5", cellString(100.5))
	assert.Equal(t, "true", cellString(true))
	assert.False(t, strings.Contains(cellString(1e21), "e"))
}
