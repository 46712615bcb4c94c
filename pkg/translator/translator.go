package translator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

var Translator *i18n.Bundle

var (
	supportedTags = []language.Tag{language.English, language.French}
	matcher       = language.NewMatcher(supportedTags)
)

type Config struct {
	TranslationFolder  string
	SupportedLanguages []string // Files for other languages are skipped; empty means load all
}

const (
	LanguageFr = "fr"
	LanguageEn = "en"
)

func InitTranslator(cfg Config) {
	Translator = i18n.NewBundle(language.English)
	Translator.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	supported := make(map[string]bool, len(cfg.SupportedLanguages))
	tags := make([]language.Tag, 0, len(cfg.SupportedLanguages)+1)
	tags = append(tags, language.English)
	for _, lang := range cfg.SupportedLanguages {
		supported[lang] = true
		if tag, err := language.Parse(lang); err == nil && tag != language.English {
			tags = append(tags, tag)
		}
	}
	supportedTags = tags
	matcher = language.NewMatcher(tags)

	lstFiles, err := os.ReadDir(cfg.TranslationFolder)
	if err != nil {
		zap.L().Error("failed to list translation folder", zap.String("folder", cfg.TranslationFolder), zap.Error(err))
		return
	}

	for _, f := range lstFiles {
		if f.IsDir() || filepath.Ext(f.Name()) != ".toml" {
			continue
		}
		lang := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		if len(supported) > 0 && !supported[lang] {
			zap.L().Debug("skipping unsupported translation", zap.String("file", f.Name()))
			continue
		}

		if _, err := Translator.LoadMessageFile(filepath.Join(cfg.TranslationFolder, f.Name())); err != nil {
			zap.L().Warn("failed to load translation file", zap.String("file", f.Name()), zap.Error(err))
		}
	}
}

// MatchLanguage picks the best supported language for an Accept-Language
// header value, falling back to English.
func MatchLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return LanguageEn
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return LanguageEn
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return LanguageEn
	}
	base, _ := supportedTags[index].Base()
	return base.String()
}
