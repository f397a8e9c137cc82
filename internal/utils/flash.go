package utils

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash is a one-shot message surfaced on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func SetFlash(c *gin.Context, level, message string) {
	session := sessions.Default(c)
	session.AddFlash(level + "|" + message)
	_ = session.Save()
}

// TakeFlashes drains and returns the pending flashes.
func TakeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		msg, ok := item.(string)
		if !ok {
			continue
		}
		level := "info"
		for i := 0; i < len(msg); i++ {
			if msg[i] == '|' {
				level = msg[:i]
				msg = msg[i+1:]
				break
			}
		}
		flashes = append(flashes, Flash{Level: level, Message: msg})
	}
	return flashes
}
