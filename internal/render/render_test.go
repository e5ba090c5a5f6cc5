package render

import (
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageData struct {
	Page    model.SitePage
	Content model.PageContent
}

func setupRenderer(t *testing.T) *Renderer {
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestNew_LoadsAllPages(t *testing.T) {
	r := setupRenderer(t)
	for _, name := range []string{"home", "about", "factory", "contact", "products", "product", "catalog", "page", "case", "not_found", "admin_login", "admin_dashboard"} {
		assert.True(t, r.Has(name), name)
	}
	assert.False(t, r.Has("layout"))
}

func TestBytes_LanguageFallback(t *testing.T) {
	r := setupRenderer(t)
	data := pageData{
		Page: model.SitePage{TitleZh: "关于我们", TitleEn: ""},
		Content: &model.AboutPageData{
			IntroZh: "第一段\n\n  第二段  ",
			IntroEn: "First\nSecond",
			Stats:   []model.Stat{{LabelZh: "员工", LabelEn: "Staff", Value: "300+"}},
		},
	}

	en, err := r.Bytes("about", View{Lang: i18n.LangEn, SiteName: "Hengyuan", Path: "/about", Data: data})
	require.NoError(t, err)
	html := string(en)
	assert.Contains(t, html, "关于我们", "empty english title falls back to chinese")
	assert.Contains(t, html, "<p>First</p>")
	assert.Contains(t, html, "Staff")
	assert.Contains(t, html, `href="/about?lang=zh"`)

	zh, err := r.Bytes("about", View{Lang: i18n.LangZh, SiteName: "Hengyuan", Path: "/about", Data: data})
	require.NoError(t, err)
	assert.Contains(t, string(zh), "<p>第二段</p>")
}

func TestBytes_HomeSections(t *testing.T) {
	r := setupRenderer(t)
	type section struct {
		Type       model.SectionType
		Content    model.SectionContent
		Categories []model.FrontCategory
	}
	data := struct{ Sections []section }{
		Sections: []section{
			{Type: model.SectionHero, Content: &model.HeroPayload{TitleZh: "定制礼盒", TitleEn: "Custom gift boxes", CTAHref: "/contact", CTALabelEn: "Talk to us"}},
			{Type: model.SectionProducts, Content: &model.ProductsPayload{TitleEn: "Lines"}, Categories: []model.FrontCategory{{Slug: "gifts", CardTitleZh: "礼品"}}},
			{Type: model.SectionRichText, Content: &model.RichTextPayload{BodyZh: "**粗体**"}},
		},
	}

	out, err := r.Bytes("home", View{Lang: i18n.LangEn, SiteName: "Hengyuan", Path: "/", Data: data})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "Custom gift boxes")
	assert.Contains(t, html, "Talk to us")
	assert.Contains(t, html, `href="/catalog/gifts"`)
	assert.Contains(t, html, "<strong>粗体</strong>")
}

func TestBytes_UnknownTemplate(t *testing.T) {
	r := setupRenderer(t)
	_, err := r.Bytes("missing", View{})
	assert.Error(t, err)
}

func TestMarkdown(t *testing.T) {
	r := setupRenderer(t)
	out := string(r.Markdown("| a | b |\n|---|---|\n| 1 | 2 |\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<table>")
	assert.NotContains(t, out, "<script>")
}

func TestNav(t *testing.T) {
	r := setupRenderer(t)
	view := View{
		Lang:     i18n.LangZh,
		SiteName: "Hengyuan",
		Path:     "/factory",
		Nav: []NavItem{
			{Label: "首页", Href: "/?lang=zh"},
			{Label: "工厂", Href: "/factory?lang=zh", Active: true},
		},
		Data: struct{}{},
	}
	out, err := r.Bytes("not_found", view)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<li class="active"><a href="/factory?lang=zh">工厂</a></li>`)
}
