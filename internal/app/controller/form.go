package controller

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
)

// Form values arrive as strings; numbers that fail to parse fall back
// instead of failing the whole submission.

func formString(c *gin.Context, key string) string {
	return strings.TrimSpace(c.PostForm(key))
}

func formInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(formString(c, key))
	if err != nil {
		return def
	}
	return n
}

func formIntPtr(c *gin.Context, key string) *int {
	n, err := strconv.Atoi(formString(c, key))
	if err != nil {
		return nil
	}
	return &n
}

func formFloatPtr(c *gin.Context, key string) *float64 {
	f, err := strconv.ParseFloat(formString(c, key), 64)
	if err != nil {
		return nil
	}
	return &f
}

func formBool(c *gin.Context, key string) bool {
	return truthy(c.PostForm(key))
}

// formBoolDefault treats an absent field as def; checkboxes send nothing when unticked,
// so forms pair them with a hidden field of the same name.
func formBoolDefault(c *gin.Context, key string, def bool) bool {
	values, ok := c.GetPostFormArray(key)
	if !ok || len(values) == 0 {
		return def
	}
	return truthy(values[len(values)-1])
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// formList collects repeated fields, also accepting one comma or newline separated value.
func formList(c *gin.Context, key string) []string {
	values := c.PostFormArray(key)
	if len(values) == 0 {
		values = c.PostFormArray(key + "[]")
	}
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// formArray keeps positions, including blanks, for index-zipped rows.
func formArray(c *gin.Context, key string) []string {
	if values := c.PostFormArray(key); len(values) > 0 {
		return values
	}
	return c.PostFormArray(key + "[]")
}

func formIDs(c *gin.Context, key string) []uint {
	var ids []uint
	for _, v := range formList(c, key) {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil && id > 0 {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// formJSON returns a raw JSON field, nil when blank.
func formJSON(c *gin.Context, key string) json.RawMessage {
	v := formString(c, key)
	if v == "" {
		return nil
	}
	return json.RawMessage(v)
}

// parseID reads the :id path param.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, apperrors.ValidationInvalidID, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes a JSON body and answers 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, apperrors.ValidationInvalidFormat, "Invalid request body: "+err.Error())
		return false
	}
	return true
}
