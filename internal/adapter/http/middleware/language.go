package middleware

import (
	"github.com/gin-gonic/gin"

	"taskflow/pkg/translator"
)

const langKey = "lang"

// LanguageMiddleware resolves the Accept-Language header to a supported
// translation language.
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(langKey, translator.MatchLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func GetLang(c *gin.Context) string {
	if lang, exists := c.Get(langKey); exists {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return translator.LanguageEn
}
