package stubgrid_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Ciriously/BrowserStack-Automation-Demo/stubgrid"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// wireReply is the legacy JSON wire protocol envelope.
type wireReply struct {
	SessionID string          `json:"sessionId"`
	Status    int             `json:"status"`
	Value     json.RawMessage `json:"value"`
}

func doWire(t *testing.T, method, rawURL string, body interface{}) wireReply {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, rawURL, rd)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	var out wireReply
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode wire reply: %v", err)
	}
	return out
}

func startSession(t *testing.T, base string) string {
	t.Helper()
	rep := doWire(t, http.MethodPost, base+"/wd/hub/session", map[string]interface{}{
		"desiredCapabilities": map[string]interface{}{
			"browserName":    "Chrome",
			"bstack:options": map[string]interface{}{"sessionName": "protocol test"},
		},
	})
	if rep.Status != 0 || rep.SessionID == "" {
		t.Fatalf("session creation failed: %+v", rep)
	}
	return rep.SessionID
}

func navigate(t *testing.T, base, sid, pageURL string) {
	t.Helper()
	rep := doWire(t, http.MethodPost, base+"/wd/hub/session/"+sid+"/url", map[string]string{"url": pageURL})
	if rep.Status != 0 {
		t.Fatalf("navigate to %s failed: %+v", pageURL, rep)
	}
}

func findElements(t *testing.T, base, sid, selector string) []map[string]string {
	t.Helper()
	rep := doWire(t, http.MethodPost, base+"/wd/hub/session/"+sid+"/elements", map[string]string{
		"using": "css selector",
		"value": selector,
	})
	if rep.Status != 0 {
		t.Fatalf("find elements %q failed: %+v", selector, rep)
	}
	var refs []map[string]string
	if err := json.Unmarshal(rep.Value, &refs); err != nil {
		t.Fatalf("decode element refs: %v", err)
	}
	return refs
}

func TestSessionLifecycle(t *testing.T) {
	s := stubgrid.New(stubgrid.DefaultSite(), nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	sid := startSession(t, srv.URL)
	navigate(t, srv.URL, sid, stubgrid.ListingURL)

	refs := findElements(t, srv.URL, sid, "h2 a")
	if len(refs) != 5 {
		t.Fatalf("expected 5 listing links, got %d", len(refs))
	}
	for _, ref := range refs {
		if ref["ELEMENT"] == "" || ref["element-6066-11e4-a52e-4f735466cecf"] != ref["ELEMENT"] {
			t.Fatalf("element ref is missing an identifier key: %v", ref)
		}
	}

	rep := doWire(t, http.MethodGet, srv.URL+"/wd/hub/session/"+sid+"/element/"+refs[0]["ELEMENT"]+"/attribute/href", nil)
	var href string
	if err := json.Unmarshal(rep.Value, &href); err != nil {
		t.Fatalf("decode href: %v", err)
	}
	if href != "https://elpais.stub/opinion/gobierno-aprueba-ley.html" {
		t.Fatalf("unexpected first href %q", href)
	}

	navigate(t, srv.URL, sid, href)
	heads := findElements(t, srv.URL, sid, "h1")
	if len(heads) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(heads))
	}
	rep = doWire(t, http.MethodGet, srv.URL+"/wd/hub/session/"+sid+"/element/"+heads[0]["ELEMENT"]+"/text", nil)
	var title string
	if err := json.Unmarshal(rep.Value, &title); err != nil {
		t.Fatalf("decode title: %v", err)
	}
	if title != "El gobierno aprueba la ley" {
		t.Fatalf("unexpected headline %q", title)
	}

	rep = doWire(t, http.MethodPost, srv.URL+"/wd/hub/session/"+sid+"/execute", map[string]interface{}{
		"script": `browserstack_executor: {"action":"setSessionStatus","arguments":{"status":"passed","reason":"all good"}}`,
		"args":   []interface{}{},
	})
	if rep.Status != 0 {
		t.Fatalf("executor script failed: %+v", rep)
	}
	v, ok := s.Verdict(sid)
	if !ok {
		t.Fatal("no verdict recorded")
	}
	if v.Status != "passed" || v.Reason != "all good" {
		t.Fatalf("unexpected verdict %+v", v)
	}

	rep = doWire(t, http.MethodDelete, srv.URL+"/wd/hub/session/"+sid, nil)
	if rep.Status != 0 {
		t.Fatalf("session delete failed: %+v", rep)
	}
	rep = doWire(t, http.MethodPost, srv.URL+"/wd/hub/session/"+sid+"/url", map[string]string{"url": stubgrid.ListingURL})
	if rep.Status == 0 {
		t.Fatal("ended session still accepts commands")
	}
	if _, ok := s.Verdict(sid); !ok {
		t.Fatal("verdict was lost on session delete")
	}
}

func TestUnknownSessionIsRejected(t *testing.T) {
	srv := httptest.NewServer(stubgrid.New(stubgrid.DefaultSite(), nil).Router())
	defer srv.Close()

	rep := doWire(t, http.MethodGet, srv.URL+"/wd/hub/session/ghost/source", nil)
	if rep.Status != 6 {
		t.Fatalf("expected no-such-session status 6, got %d", rep.Status)
	}
}

func TestFindElementWithoutMatchReportsNoSuchElement(t *testing.T) {
	srv := httptest.NewServer(stubgrid.New(stubgrid.DefaultSite(), nil).Router())
	defer srv.Close()

	sid := startSession(t, srv.URL)
	navigate(t, srv.URL, sid, stubgrid.ListingURL)

	rep := doWire(t, http.MethodPost, srv.URL+"/wd/hub/session/"+sid+"/elements", map[string]string{
		"using": "css selector",
		"value": "aside.widget",
	})
	var refs []map[string]string
	if err := json.Unmarshal(rep.Value, &refs); err != nil {
		t.Fatalf("decode refs: %v", err)
	}
	if rep.Status != 0 || len(refs) != 0 {
		t.Fatalf("plural find should return an empty list, got status=%d refs=%v", rep.Status, refs)
	}

	rep = doWire(t, http.MethodPost, srv.URL+"/wd/hub/session/"+sid+"/element", map[string]string{
		"using": "css selector",
		"value": "aside.widget",
	})
	if rep.Status != 7 {
		t.Fatalf("expected no-such-element status 7, got %d", rep.Status)
	}
}

func TestFindElementsBeforeNavigation(t *testing.T) {
	srv := httptest.NewServer(stubgrid.New(stubgrid.DefaultSite(), nil).Router())
	defer srv.Close()

	sid := startSession(t, srv.URL)
	if refs := findElements(t, srv.URL, sid, "h2 a"); len(refs) != 0 {
		t.Fatalf("blank session should have no elements, got %d", len(refs))
	}
}

func TestExecuteSyncRouteRecordsVerdicts(t *testing.T) {
	s := stubgrid.New(stubgrid.DefaultSite(), nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	sid := startSession(t, srv.URL)
	rep := doWire(t, http.MethodPost, srv.URL+"/wd/hub/session/"+sid+"/execute/sync", map[string]interface{}{
		"script": `browserstack_executor: {"action":"setSessionStatus","arguments":{"status":"failed","reason":"extract stage failed"}}`,
		"args":   []interface{}{},
	})
	if rep.Status != 0 {
		t.Fatalf("executor script failed: %+v", rep)
	}
	v, ok := s.Verdict(sid)
	if !ok || v.Status != "failed" || v.Reason != "extract stage failed" {
		t.Fatalf("unexpected verdict %+v ok=%v", v, ok)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	srv := httptest.NewServer(stubgrid.New(stubgrid.DefaultSite(), stubgrid.DefaultTranslations()).Router())
	defer srv.Close()

	fetch := func(text string) string {
		t.Helper()
		q := url.Values{}
		q.Set("client", "gtx")
		q.Set("sl", "es")
		q.Set("tl", "en")
		q.Set("dt", "t")
		q.Set("q", text)
		resp, err := http.Get(srv.URL + "/translate_a/single?" + q.Encode())
		if err != nil {
			t.Fatalf("translate request: %v", err)
		}
		defer resp.Body.Close()

		var payload []interface{}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("decode translate payload: %v", err)
		}
		segments := payload[0].([]interface{})
		first := segments[0].([]interface{})
		return first[0].(string)
	}

	if got := fetch("El gobierno aprueba la ley"); got != "The government approves the law" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := fetch("texto sin mapear"); got != "texto sin mapear" {
		t.Fatalf("unmapped text should echo, got %q", got)
	}
}
