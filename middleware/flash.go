package middleware

import "github.com/gofiber/fiber/v2/middleware/session"

// Flash categories, used by the templates to pick a style.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

const (
	flashCategoryKey = "flash_category"
	flashMessageKey  = "flash_message"
)

// SetFlash stores a one-shot notice in the session. A second SetFlash before
// the first is shown replaces it.
func SetFlash(sess *session.Session, category, message string) {
	sess.Set(flashCategoryKey, category)
	sess.Set(flashMessageKey, message)
}

// PopFlash returns the pending notice and removes it, so it renders at most
// once. The caller is responsible for saving the session afterwards.
func PopFlash(sess *session.Session) (category, message string) {
	category, _ = sess.Get(flashCategoryKey).(string)
	message, _ = sess.Get(flashMessageKey).(string)
	if message != "" {
		sess.Delete(flashCategoryKey)
		sess.Delete(flashMessageKey)
	}
	return category, message
}
