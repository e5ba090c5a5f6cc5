package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
)

var (
	ErrTranslationDisabled = errors.New("translation is not configured")
	ErrTranslationFailed   = errors.New("translation request failed")
	ErrEmptyTranslation    = errors.New("nothing to translate")
)

// Translator fills in the other-language variant of a field.
type Translator interface {
	Translate(ctx context.Context, text string, source, target i18n.Lang) (string, error)
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

type deeplTranslator struct {
	client *resty.Client
}

// NewTranslator returns a DeepL-compatible client, or a translator that
// always answers ErrTranslationDisabled when no API key is configured.
func NewTranslator(cfg config.TranslateConfig) Translator {
	if cfg.APIKey == "" {
		return disabledTranslator{}
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "DeepL-Auth-Key "+cfg.APIKey)
	return &deeplTranslator{client: client}
}

func deeplLang(l i18n.Lang) string {
	if l == i18n.LangEn {
		return "EN"
	}
	return "ZH"
}

func (t *deeplTranslator) Translate(ctx context.Context, text string, source, target i18n.Lang) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyTranslation
	}
	if source == target {
		return text, nil
	}

	var result deeplResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetBody(deeplRequest{
			Text:       []string{text},
			SourceLang: deeplLang(source),
			TargetLang: deeplLang(target),
		}).
		SetResult(&result).
		Post("/translate")
	if err != nil {
		logger.Error("Translation request failed", err, map[string]interface{}{
			"source": source,
			"target": target,
		})
		return "", fmt.Errorf("%w: %v", ErrTranslationFailed, err)
	}
	if resp.IsError() {
		logger.Warn("Translation API returned an error", map[string]interface{}{
			"status": resp.StatusCode(),
		})
		return "", fmt.Errorf("%w: status %d", ErrTranslationFailed, resp.StatusCode())
	}
	if len(result.Translations) == 0 {
		return "", ErrTranslationFailed
	}
	return result.Translations[0].Text, nil
}

type disabledTranslator struct{}

func (disabledTranslator) Translate(context.Context, string, i18n.Lang, i18n.Lang) (string, error) {
	return "", ErrTranslationDisabled
}
