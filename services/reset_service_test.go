package services

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/utils"
)

type mapState map[string]interface{}

func (m mapState) Get(key string) interface{}        { return m[key] }
func (m mapState) Set(key string, value interface{}) { m[key] = value }
func (m mapState) Delete(key string)                 { delete(m, key) }

type recordingNotifier struct {
	sendErr error
	sent    []sentMail
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

func (n *recordingNotifier) Send(to []string, subject, body string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newResetTestService(t *testing.T) (*ResetService, *recordingNotifier, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	notifier := &recordingNotifier{}
	svc := NewResetService(db, notifier, []string{"ops@example.com"}, "Alice")
	return svc, notifier, db
}

func createUser(t *testing.T, db *gorm.DB, email, password, name string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, PasswordHash: hash, Name: name}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func issuedCode(t *testing.T, n *recordingNotifier) string {
	t.Helper()
	if len(n.sent) == 0 {
		t.Fatal("no reset email sent")
	}
	last := n.sent[len(n.sent)-1]
	code := strings.TrimSpace(last.body)
	// The code sits on its own line in the middle of the message.
	for _, line := range strings.Split(last.body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) == 48 && !strings.Contains(line, " ") {
			code = line
			break
		}
	}
	return code
}

func TestRequestUnknownEmail(t *testing.T) {
	svc, notifier, _ := newResetTestService(t)
	state := mapState{}

	err := svc.Request(state, "nobody@example.com")
	if !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("err = %v, want ErrEmailNotFound", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("no email should be sent for unknown addresses")
	}
	if len(state) != 0 {
		t.Fatal("state should stay idle for unknown addresses")
	}
}

func TestRequestNormalizesEmail(t *testing.T) {
	svc, notifier, db := newResetTestService(t)
	createUser(t, db, "a@x.com", "password1234", "Alice")
	state := mapState{}

	if err := svc.Request(state, "  A@X.com "); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(notifier.sent))
	}
	to := notifier.sent[0].to
	if to[0] != "a@x.com" || to[len(to)-1] != "ops@example.com" {
		t.Fatalf("unexpected recipients: %v", to)
	}
}

func TestVerifyWrongCodeAbandonsAttempt(t *testing.T) {
	svc, _, db := newResetTestService(t)
	createUser(t, db, "a@x.com", "password1234", "Alice")
	state := mapState{}

	if err := svc.Request(state, "a@x.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := svc.Verify(state, "not-the-code"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("err = %v, want ErrCodeMismatch", err)
	}
	// The slot is gone entirely: even the right code is useless now.
	if err := svc.Verify(state, "anything"); !errors.Is(err, ErrNoResetInProgress) {
		t.Fatalf("err = %v, want ErrNoResetInProgress", err)
	}
}

func TestSecondRequestOverwritesSlot(t *testing.T) {
	svc, notifier, db := newResetTestService(t)
	createUser(t, db, "a@x.com", "password1234", "Alice")
	createUser(t, db, "b@x.com", "password5678", "Bob")
	state := mapState{}

	if err := svc.Request(state, "a@x.com"); err != nil {
		t.Fatalf("request A: %v", err)
	}
	codeA := issuedCode(t, notifier)

	if err := svc.Request(state, "b@x.com"); err != nil {
		t.Fatalf("request B: %v", err)
	}
	codeB := issuedCode(t, notifier)

	if codeA == codeB {
		t.Fatal("second request must issue a fresh code")
	}
	if err := svc.Verify(state, codeA); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("A's code should no longer verify, got %v", err)
	}
}

func TestReplacePasswordRequiresVerification(t *testing.T) {
	svc, _, db := newResetTestService(t)
	createUser(t, db, "a@x.com", "password1234", "Alice")
	state := mapState{}

	if err := svc.Request(state, "a@x.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := svc.ReplacePassword(state, "newpass5678"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("err = %v, want ErrNotVerified", err)
	}
}

func TestReplacePasswordFlow(t *testing.T) {
	svc, notifier, db := newResetTestService(t)
	created := createUser(t, db, "a@x.com", "password1234", "Alice")
	oldHash := created.PasswordHash
	state := mapState{}

	if err := svc.Request(state, "a@x.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	code := issuedCode(t, notifier)
	if err := svc.Verify(state, code); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// A password embedded in the email is rejected; the slot survives.
	if _, err := svc.ReplacePassword(state, "a@x"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("err = %v, want ErrWeakPassword", err)
	}

	user, err := svc.ReplacePassword(state, "newpass5678")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if user.ID != created.ID || user.Email != "a@x.com" || user.Name != "Alice" {
		t.Fatalf("identity changed across replacement: %+v", user)
	}

	var reloaded models.User
	if err := db.First(&reloaded, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PasswordHash == oldHash {
		t.Fatal("password hash not replaced")
	}
	if !utils.CheckPassword(reloaded.PasswordHash, "newpass5678") {
		t.Fatal("new password does not verify")
	}
	if utils.CheckPassword(reloaded.PasswordHash, "password1234") {
		t.Fatal("old password still verifies")
	}

	// Slot consumed: the flow is idle again.
	if _, err := svc.ReplacePassword(state, "otherpass999"); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("err = %v, want ErrNotVerified after consumption", err)
	}
}

func TestRequestSurfacesDeliveryFailure(t *testing.T) {
	svc, notifier, db := newResetTestService(t)
	createUser(t, db, "a@x.com", "password1234", "Alice")
	notifier.sendErr = errors.New("smtp unreachable")
	state := mapState{}

	if err := svc.Request(state, "a@x.com"); err == nil {
		t.Fatal("delivery failure must propagate")
	}
}
