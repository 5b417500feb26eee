// Package stubgrid is an in-process WebDriver hub backed by a fixture
// site. It speaks enough of the JSON wire protocol for a real remote
// driver client to create sessions, query elements and push
// browserstack_executor verdicts, which makes the whole orchestration
// path testable without a browser or network access.
package stubgrid

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Legacy wire protocol status codes.
const (
	statusSuccess       = 0
	statusNoSuchSession = 6
	statusNoSuchElement = 7
	statusStaleElement  = 10
	statusJSError       = 17
)

const executorPrefix = "browserstack_executor:"

// Both element keys are sent on every element so legacy and W3C clients
// find the one they look for.
const (
	legacyElementKey = "ELEMENT"
	w3cElementKey    = "element-6066-11e4-a52e-4f735466cecf"
)

// Verdict is a session status pushed through the executor protocol.
type Verdict struct {
	Status string
	Reason string
}

// Server holds the fixture site and all session state.
type Server struct {
	site         *Site
	translations map[string]string
	store        *sessionStore
}

// New creates a server for the given site. The translations map feeds
// the bundled translation endpoint; pass nil to echo text unchanged.
func New(site *Site, translations map[string]string) *Server {
	return &Server{
		site:         site,
		translations: translations,
		store:        newSessionStore(),
	}
}

// Router builds the gin engine with all stub routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerWebDriverRoutes(r)
	s.registerTranslateRoutes(r)
	return r
}

func (s *Server) registerWebDriverRoutes(r *gin.Engine) {
	g := r.Group("/wd/hub")
	g.GET("/status", s.handleStatus)
	g.POST("/session", s.handleCreateSession)
	g.DELETE("/session/:sid", s.handleDeleteSession)
	g.POST("/session/:sid/url", s.handleNavigate)
	g.POST("/session/:sid/element", s.handleFindElement)
	g.POST("/session/:sid/elements", s.handleFindElements)
	g.GET("/session/:sid/element/:eid/text", s.handleElementText)
	g.GET("/session/:sid/element/:eid/attribute/:name", s.handleElementAttr)
	g.GET("/session/:sid/source", s.handlePageSource)
	g.POST("/session/:sid/execute", s.handleExecute)
	g.POST("/session/:sid/execute/sync", s.handleExecute)
}

// Verdict returns the status pushed for a session, if any.
func (s *Server) Verdict(sessionID string) (Verdict, bool) {
	sess := s.store.get(sessionID)
	if sess == nil || sess.status == "" {
		return Verdict{}, false
	}
	return Verdict{Status: sess.status, Reason: sess.reason}, true
}

// Verdicts returns the pushed status for every session that got one.
func (s *Server) Verdicts() map[string]Verdict {
	out := make(map[string]Verdict)
	for _, sess := range s.store.all() {
		if sess.status != "" {
			out[sess.id] = Verdict{Status: sess.status, Reason: sess.reason}
		}
	}
	return out
}

// SessionCaps returns the capabilities a session was created with.
func (s *Server) SessionCaps(sessionID string) map[string]interface{} {
	sess := s.store.get(sessionID)
	if sess == nil {
		return nil
	}
	return sess.caps
}

func reply(c *gin.Context, sessionID string, value interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"status":    statusSuccess,
		"value":     value,
	})
}

func replyError(c *gin.Context, sessionID string, status int, message string) {
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sessionID,
		"status":    status,
		"value":     gin.H{"message": message},
	})
}

func (s *Server) session(c *gin.Context) *sessionState {
	sid := c.Param("sid")
	sess := s.store.get(sid)
	if sess == nil {
		replyError(c, sid, statusNoSuchSession, "no such session: "+sid)
		return nil
	}
	s.store.mu.Lock()
	ended := sess.ended
	s.store.mu.Unlock()
	if ended {
		replyError(c, sid, statusNoSuchSession, "session already ended: "+sid)
		return nil
	}
	return sess
}

func (s *Server) handleStatus(c *gin.Context) {
	reply(c, "", gin.H{"ready": true, "message": "stub grid ready"})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req struct {
		DesiredCapabilities map[string]interface{} `json:"desiredCapabilities"`
		Capabilities        struct {
			AlwaysMatch map[string]interface{} `json:"alwaysMatch"`
		} `json:"capabilities"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		replyError(c, "", statusJSError, "malformed new session request: "+err.Error())
		return
	}
	caps := req.DesiredCapabilities
	if caps == nil {
		caps = req.Capabilities.AlwaysMatch
	}
	sess := s.store.create(caps)
	log.Printf("[stubgrid] session %s started (%s)", sess.id, sessionName(caps))
	reply(c, sess.id, caps)
}

func sessionName(caps map[string]interface{}) string {
	opts, ok := caps["bstack:options"].(map[string]interface{})
	if !ok {
		return "unnamed"
	}
	name, ok := opts["sessionName"].(string)
	if !ok || name == "" {
		return "unnamed"
	}
	return name
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	s.store.mu.Lock()
	sess.ended = true
	s.store.mu.Unlock()
	log.Printf("[stubgrid] session %s ended", sess.id)
	reply(c, sess.id, nil)
}

func (s *Server) handleNavigate(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		replyError(c, sess.id, statusJSError, "malformed navigate request: "+err.Error())
		return
	}
	page := s.site.page(req.URL)
	if page == nil {
		// A real browser lands on an error page rather than failing the
		// command, so unknown URLs become a page with no matching markup.
		page = &Page{URL: req.URL, Selectors: map[string][]*Element{}}
	}
	s.store.mu.Lock()
	sess.current = page
	s.store.mu.Unlock()
	reply(c, sess.id, nil)
}

func (s *Server) matches(c *gin.Context, sess *sessionState) ([]*Element, bool) {
	var req struct {
		Using string `json:"using"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		replyError(c, sess.id, statusJSError, "malformed locator request: "+err.Error())
		return nil, false
	}
	s.store.mu.Lock()
	page := sess.current
	s.store.mu.Unlock()
	if page == nil {
		return nil, true
	}
	return page.Selectors[req.Value], true
}

func elementRef(el *Element) gin.H {
	return gin.H{
		legacyElementKey: el.ID,
		w3cElementKey:    el.ID,
	}
}

func (s *Server) handleFindElement(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	els, ok := s.matches(c, sess)
	if !ok {
		return
	}
	if len(els) == 0 {
		replyError(c, sess.id, statusNoSuchElement, "no such element on "+currentURL(s.store, sess))
		return
	}
	reply(c, sess.id, elementRef(els[0]))
}

func (s *Server) handleFindElements(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	els, ok := s.matches(c, sess)
	if !ok {
		return
	}
	refs := make([]gin.H, 0, len(els))
	for _, el := range els {
		refs = append(refs, elementRef(el))
	}
	reply(c, sess.id, refs)
}

func (s *Server) element(c *gin.Context, sess *sessionState) *Element {
	eid := c.Param("eid")
	el := s.site.element(eid)
	if el == nil {
		replyError(c, sess.id, statusStaleElement, "stale element reference: "+eid)
		return nil
	}
	return el
}

func (s *Server) handleElementText(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	el := s.element(c, sess)
	if el == nil {
		return
	}
	reply(c, sess.id, el.Text)
}

func (s *Server) handleElementAttr(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	el := s.element(c, sess)
	if el == nil {
		return
	}
	reply(c, sess.id, el.Attrs[c.Param("name")])
}

func (s *Server) handlePageSource(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	reply(c, sess.id, "<html><!-- "+currentURL(s.store, sess)+" --></html>")
}

func currentURL(st *sessionStore, sess *sessionState) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess.current == nil {
		return "about:blank"
	}
	return sess.current.URL
}

func (s *Server) handleExecute(c *gin.Context) {
	sess := s.session(c)
	if sess == nil {
		return
	}
	var req struct {
		Script string        `json:"script"`
		Args   []interface{} `json:"args"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		replyError(c, sess.id, statusJSError, "malformed execute request: "+err.Error())
		return
	}
	if strings.HasPrefix(req.Script, executorPrefix) {
		if err := s.applyExecutor(sess, strings.TrimPrefix(req.Script, executorPrefix)); err != nil {
			replyError(c, sess.id, statusJSError, err.Error())
			return
		}
	}
	reply(c, sess.id, nil)
}

func (s *Server) applyExecutor(sess *sessionState, payload string) error {
	var cmd struct {
		Action    string `json:"action"`
		Arguments struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		} `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &cmd); err != nil {
		return err
	}
	if cmd.Action != "setSessionStatus" {
		return nil
	}
	s.store.mu.Lock()
	sess.status = cmd.Arguments.Status
	sess.reason = cmd.Arguments.Reason
	s.store.mu.Unlock()
	log.Printf("[stubgrid] session %s marked %s: %s", sess.id, cmd.Arguments.Status, cmd.Arguments.Reason)
	return nil
}
