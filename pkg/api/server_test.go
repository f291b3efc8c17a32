package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/gig2sfz/pkg/converter"
	"github.com/james-see/gig2sfz/pkg/gig"
	"github.com/james-see/gig2sfz/pkg/gig/gigtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func kickGig(dims ...gigtest.Dimension) []byte {
	region := gigtest.Region{KeyLow: 36, KeyHigh: 36, Sample: 0}
	if len(dims) > 0 {
		region.Dimensions = dims
		region.DimensionRegions = []gigtest.DimensionRegion{
			{Sample: 0, UnityNote: 36},
			{Sample: 0, UnityNote: 36},
		}
	}
	return gigtest.Build(gigtest.File{
		Samples:     []gigtest.Sample{{Name: "Kick", UnityNote: 36}},
		Instruments: []gigtest.Instrument{{Name: "Kick", Regions: []gigtest.Region{region}}},
	})
}

func upload(t *testing.T, target string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		part, err := mw.CreateFormFile("file", "bank.gig")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	NewRouter(converter.New()).ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router := NewRouter(converter.New())
	for _, path := range []string{"/health", "/api/v1/health"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"healthy"`)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestFormats(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(converter.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/formats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"velocity", "releasetrigger"}, resp["dimensions"])
}

func TestOptionsPreflight(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(converter.New()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/convert", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConvert(t *testing.T) {
	rec := upload(t, "/api/v1/convert", kickGig())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Files []converter.OutputFile `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "Kick.sfz", resp.Files[0].Name)
	assert.Equal(t, "<region>\nsample=Kick\npitch_keycenter=36\nlokey=36\nhikey=36\n\n", resp.Files[0].Content)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		status int
	}{
		{"no file", nil, http.StatusBadRequest},
		{"not a gig file", []byte("hello"), http.StatusUnprocessableEntity},
		{"unsupported dimension", kickGig(gigtest.Dimension{Type: uint8(gig.DimensionModWheel), Bits: 1}), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := upload(t, "/api/v1/convert", tt.data)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestInspect(t *testing.T) {
	rec := upload(t, "/api/v1/inspect", kickGig(gigtest.Dimension{Type: uint8(gig.DimensionModWheel), Bits: 1}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Instruments []converter.InstrumentSummary `json:"instruments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Instruments, 1)
	require.Len(t, resp.Instruments[0].Regions, 1)
	assert.False(t, resp.Instruments[0].Regions[0].Supported)
}

func TestPreview(t *testing.T) {
	rec := upload(t, "/api/v1/preview", kickGig())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "audio/midi", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Kick.mid")
	assert.Equal(t, "MThd", rec.Body.String()[:4])

	rec = upload(t, "/api/v1/preview?instrument=3", kickGig())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, "/api/v1/preview?instrument=x", kickGig())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
