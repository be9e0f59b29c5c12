package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const flashCookie = "marketplace_flash"

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

const flashesKey = "flashes"

func pendingFlashes(c echo.Context) []Flash {
	if pending, ok := c.Get(flashesKey).([]Flash); ok {
		return pending
	}
	var flashes []Flash
	if cookie, err := c.Cookie(flashCookie); err == nil {
		if raw, err := base64.RawURLEncoding.DecodeString(cookie.Value); err == nil {
			_ = json.Unmarshal(raw, &flashes)
		}
	}
	return flashes
}

// SetFlash queues a message for the next page the client renders
func SetFlash(c echo.Context, category, message string) {
	flashes := append(pendingFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashesKey, flashes)

	raw, _ := json.Marshal(flashes)
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns the queued messages and clears them
func PopFlashes(c echo.Context) []Flash {
	flashes := pendingFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.Set(flashesKey, []Flash{})
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return flashes
}
