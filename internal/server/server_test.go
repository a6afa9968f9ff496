package server

import (
	"encoding/json"
	"github.com/packagewjx/tensorprep/internal/preprocess"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type memoryDao struct {
	mu      sync.Mutex
	records []*store.RunRecord
}

var _ store.Dao = &memoryDao{}

func (m *memoryDao) DB() *gorm.DB {
	return nil
}

func (m *memoryDao) SaveRunRecord(r *store.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uint(len(m.records) + 1)
	m.records = append(m.records, r)
	return nil
}

func (m *memoryDao) RemoveRunRecordsBefore(t time.Time) error {
	return nil
}

func (m *memoryDao) QueryRunRecordsByIdentifier(identifier string) ([]*store.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*store.RunRecord{}
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Identifier == identifier {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

func (m *memoryDao) QueryRecentRunRecords(limit int) ([]*store.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*store.RunRecord{}
	for i := len(m.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.records[i])
	}
	return result, nil
}

func testServer(t *testing.T, dao store.Dao) *serverImpl {
	pipeline, err := preprocess.BuildPipeline([]preprocess.StageConfig{
		{Type: "scale", Options: map[string]interface{}{"scalar": 2}},
	})
	require.NoError(t, err)
	return &serverImpl{
		config:   &ServerConfig{Port: DefaultPort, MaxBodyBytes: 1024},
		pipeline: pipeline,
		dao:      dao,
		logger:   log.New(ioutil.Discard, "", 0),
	}
}

func do(s *serverImpl, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.Handler().ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestServerConfig_Complete(t *testing.T) {
	config := ServerConfig{Port: DefaultPort, MaxBodyBytes: DefaultMaxBodyBytes}
	assert.NoError(t, config.Complete())

	configCopy := config
	configCopy.Port = 80
	assert.Error(t, configCopy.Complete())

	configCopy = config
	configCopy.MaxBodyBytes = 0
	assert.Error(t, configCopy.Complete())

	t.Setenv("MYSQL_SERVICE_HOST", "")
	configCopy = config
	configCopy.Record = true
	assert.Error(t, configCopy.Complete())

	configCopy.MysqlDSN = "root@tcp(localhost:3306)/tensorprep"
	assert.NoError(t, configCopy.Complete())
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(&ServerConfig{Port: DefaultPort, MaxBodyBytes: DefaultMaxBodyBytes}, preprocess.NewPipeline())
	assert.NoError(t, err)

	_, err = NewServer(&ServerConfig{Port: DefaultPort, MaxBodyBytes: DefaultMaxBodyBytes}, nil)
	assert.Error(t, err)

	_, err = NewServer(&ServerConfig{Port: 0}, preprocess.NewPipeline())
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	recorder := do(testServer(t, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "OK", recorder.Body.String())
}

func TestPreprocess(t *testing.T) {
	recorder := do(testServer(t, nil), http.MethodPost, "/preprocess",
		`{"shape":[2,2],"dtype":"float32","data":[1,2,3,4],"metadata":{"identifier":"a"}}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"shape":[2,2],"dtype":"float32","data":[2,4,6,8]}`, recorder.Body.String())
}

func TestPreprocessErrors(t *testing.T) {
	s := testServer(t, nil)

	recorder := do(s, http.MethodGet, "/preprocess", "")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)

	for _, body := range []string{
		`not json`,
		`{"shape":[3],"data":[1,2]}`,
		`{"shape":[2],"dtype":"int32","data":[1.5,2]}`,
		`{"shape":[2],"dtype":"complex","data":[1,2]}`,
		`{"shape":[600],"data":[` + strings.Repeat("1,", 599) + `1]}`,
	} {
		recorder = do(s, http.MethodPost, "/preprocess", body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, body)
	}

	reshape, err := preprocess.NewReshape([]int{3})
	require.NoError(t, err)
	s.pipeline = preprocess.NewPipeline(reshape)
	recorder = do(s, http.MethodPost, "/preprocess", `{"shape":[2],"data":[1,2]}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "shape mismatch")
}

func TestPreprocessOverflow(t *testing.T) {
	dao := &memoryDao{}
	s := testServer(t, dao)
	scale, err := preprocess.NewScale(1e39)
	require.NoError(t, err)
	s.pipeline = preprocess.NewPipeline(scale)

	recorder := do(s, http.MethodPost, "/preprocess", `{"shape":[1],"data":[1]}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "invalid array")
	assert.Empty(t, dao.records)
}

func TestPipeline(t *testing.T) {
	recorder := do(testServer(t, nil), http.MethodGet, "/pipeline", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `label="scale"`)
	assert.Contains(t, recorder.Body.String(), `"stage_1" -> "sink";`)
}

func TestRecords(t *testing.T) {
	recorder := do(testServer(t, nil), http.MethodGet, "/records", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	dao := &memoryDao{}
	s := testServer(t, dao)
	for _, body := range []string{
		`{"shape":[2],"data":[1,2],"metadata":{"identifier":"a"}}`,
		`{"shape":[2],"data":[3,4],"metadata":{"identifier":"b"}}`,
		`{"shape":[2],"data":[5,6]}`,
	} {
		recorder = do(s, http.MethodPost, "/preprocess", body)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	require.Len(t, dao.records, 3)
	assert.Equal(t, "pipeline[scale]", dao.records[0].Pipeline)
	assert.Equal(t, float32(4), dao.records[0].Max)
	assert.Equal(t, anonymousIdentifier, dao.records[2].Identifier)

	records := []*store.RunRecord{}
	recorder = do(s, http.MethodGet, "/records?identifier=b", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
	assert.Len(t, records, 1)
	assert.Equal(t, float32(6), records[0].Min)

	recorder = do(s, http.MethodGet, "/records?limit=2", "")
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &records))
	assert.Len(t, records, 2)
	assert.Equal(t, anonymousIdentifier, records[0].Identifier)

	recorder = do(s, http.MethodGet, "/records?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
