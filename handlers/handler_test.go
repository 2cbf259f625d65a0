package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/obiora789/My-Personal-Blog/config"
	"github.com/obiora789/My-Personal-Blog/handlers"
	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/routes"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type recordingNotifier struct {
	sent []sentMail
}

func (n *recordingNotifier) Send(to []string, subject, body string) error {
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// lastCode digs the reset code (48 hex characters on its own line) out of
// the most recent email.
func (n *recordingNotifier) lastCode(t *testing.T) string {
	t.Helper()
	if len(n.sent) == 0 {
		t.Fatal("no email sent")
	}
	for _, line := range strings.Split(n.sent[len(n.sent)-1].body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 48 && !strings.ContainsAny(line, " :,") {
			return line
		}
	}
	t.Fatal("no reset code found in email body")
	return ""
}

func newTestApp(t *testing.T, lifetime time.Duration) (*fiber.App, *recordingNotifier, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	middleware.InitSessionStore(lifetime)

	log := logrus.New()
	log.SetOutput(io.Discard)

	notifier := &recordingNotifier{}
	h := handlers.New(db, notifier,
		config.AppConfig{Addr: ":0", OwnerName: "Alice", SessionLifetime: lifetime},
		config.EmailConfig{NotifyAddresses: []string{"ops@example.com"}},
		log)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(log)})
	routes.Register(app, h)
	return app, notifier, db
}

// client is one browser: it carries the session cookie between requests.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

// newClient warms the session up: the very first request always trips the
// expired-session notice, so it is performed and its flash consumed here.
func newClient(t *testing.T, app *fiber.App) *client {
	t.Helper()
	c := &client{t: t, app: app, cookies: make(map[string]string)}
	c.get("/")
	c.get("/login")
	return c
}

func (c *client) do(method, target string, form url.Values) *http.Response {
	c.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, target, err)
	}
	for _, ck := range resp.Cookies() {
		c.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(target string) *http.Response {
	return c.do(http.MethodGet, target, nil)
}

func (c *client) post(target string, form url.Values) *http.Response {
	return c.do(http.MethodPost, target, form)
}

func (c *client) register(email, password, name string) *http.Response {
	return c.post("/register", url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	})
}

func (c *client) login(email, password string) *http.Response {
	return c.post("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusFound)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("redirect to %q, want %q", got, location)
	}
}

// wantFlash follows up on a redirect and checks the notice shows on the
// next page.
func (c *client) wantFlash(target, message string) {
	c.t.Helper()
	body := bodyOf(c.t, c.get(target))
	if !strings.Contains(body, message) {
		c.t.Fatalf("page %s does not show flash %q", target, message)
	}
}
