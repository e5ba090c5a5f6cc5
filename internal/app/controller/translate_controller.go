package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
)

type TranslateController struct {
	translator service.Translator
}

func NewTranslateController(translator service.Translator) *TranslateController {
	return &TranslateController{translator: translator}
}

type TranslateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Translate POST /api/admin/translate
// Source defaults to zh; target defaults to the other language.
func (ctrl *TranslateController) Translate(c *gin.Context) {
	var req TranslateRequest
	if isJSON(c) {
		if !bindJSON(c, &req) {
			return
		}
	} else {
		req = TranslateRequest{
			Text:   c.PostForm("text"),
			Source: formString(c, "source"),
			Target: formString(c, "target"),
		}
	}

	source := i18n.ParseLang(req.Source)
	target := source.Other()
	if req.Target != "" {
		target = i18n.ParseLang(req.Target)
	}

	text, err := ctrl.translator.Translate(c.Request.Context(), req.Text, source, target)
	if err != nil {
		respondError(c, err, "translate")
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"text":   text,
		"source": source,
		"target": target,
	})
}
