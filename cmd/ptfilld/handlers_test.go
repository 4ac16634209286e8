package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pt-autofill/internal/autofill"
	"pt-autofill/internal/config"
	"pt-autofill/internal/form"
	"pt-autofill/internal/models"
	"pt-autofill/pkg/logger"
)

const uploadPage = `<html><head><title>Upload</title></head><body><form enctype="multipart/form-data">
<input type="text" name="name" value="">
<input type="text" name="small_descr" value="">
<textarea name="technical_info"></textarea>
<select name="standard_sel[4]"><option value="0">-</option><option value="1">1080p</option><option value="5">2160p</option></select>
<select name="codec_sel[4]"><option value="0">-</option><option value="7">HEVC</option></select>
<select name="audiocodec_sel[4]"><option value="0">-</option><option value="11">DTS-HD MA</option></select>
</form></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 4096
	svc := autofill.New(form.DefaultProfile(), nil, logger.Discard())
	ts := httptest.NewServer(logRequest(logger.Discard(), newMux(svc, cfg.Server)))
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing request id header")
	}
}

func TestClassifyEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/classify", classifyReq{
		MediaInfo: "Video\nFormat : HEVC\nHeight : 2 160 pixels\n\nAudio\nFormat : DTS XLL\nFormat/Info : DTS-HD Master Audio",
		Title:     "Movie.2160p.UHD.BluRay",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got models.Classification
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Resolution != models.Res2160p || got.VideoCodec != models.VideoHEVC || got.AudioCodec != models.AudioDTSHD {
		t.Fatalf("unexpected classification %#v", got)
	}
	if got.TitleResolution != models.Res2160p {
		t.Fatalf("title resolution %v", got.TitleResolution)
	}
}

func TestClassifyRejects(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/classify")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET: want 405, got %d", resp.StatusCode)
	}

	if resp := post(t, ts.URL+"/classify", classifyReq{}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty: want 400, got %d", resp.StatusCode)
	}

	big := classifyReq{MediaInfo: strings.Repeat("x", 8192)}
	if resp := post(t, ts.URL+"/classify", big); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized: want 400, got %d", resp.StatusCode)
	}
}

func TestClassifyBatchEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/classify/batch", batchReq{Items: []models.Payload{
		{Title: "a.720p", MediaInfo: "Height : 720\nFormat : AVC"},
		{Title: "missing mediainfo"},
	}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got []models.ClassifyResult
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Class == nil || got[0].Class.Resolution != models.Res720p || got[1].Error == "" {
		t.Fatalf("unexpected batch %#v", got)
	}

	if resp := post(t, ts.URL+"/classify/batch", batchReq{}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty batch: want 400, got %d", resp.StatusCode)
	}
}

func TestFillEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := post(t, ts.URL+"/fill", fillReq{
		Payload: &models.Payload{Title: "Movie.2160p", Subtitle: "sub", MediaInfo: "Height : 2160\nFormat : HEVC\nFormat : DTS\nDTS-HD"},
		HTML:    uploadPage,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var got fillResp
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Result.Mode != form.ModeJSON || got.Result.Class.AudioCodec != models.AudioDTSHD {
		t.Fatalf("unexpected result %#v", got.Result)
	}
	if !strings.Contains(got.HTML, `<option value="5" selected="`) || !strings.Contains(got.HTML, `value="sub"`) {
		t.Fatalf("filled html missing selections:\n%s", got.HTML)
	}

	bad := post(t, ts.URL+"/fill", fillReq{HTML: uploadPage, Mode: "magic"})
	if bad.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("unknown mode: want 422, got %d", bad.StatusCode)
	}
}
