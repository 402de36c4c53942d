package page

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentListScan(t *testing.T) {
	var c ComponentList

	require.NoError(t, c.Scan(nil))
	assert.NotNil(t, c)
	assert.Empty(t, c)

	require.NoError(t, c.Scan([]byte(`[{"type":"hero","text":"Welcome"}]`)))
	require.Len(t, c, 1)

	block := c[0].(map[string]any)
	assert.Equal(t, "hero", block["type"])

	assert.Error(t, c.Scan(42))
}

func TestComponentListValue(t *testing.T) {
	var c ComponentList
	v, err := c.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v.([]byte)))

	c = ComponentList{map[string]any{"type": "text"}}
	v, err = c.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"text"}]`, string(v.([]byte)))
}

func TestStyleListScan(t *testing.T) {
	var s StyleList

	require.NoError(t, s.Scan(`[{"selectors":[".hero"]}]`))
	require.Len(t, s, 1)

	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
}

func TestCreateValidation(t *testing.T) {
	svc := NewPageService(nil)

	_, err := svc.Create(context.Background(), uuid.New(), "user-1", &CreatePageRequest{Slug: "about"})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), uuid.New(), "user-1", &CreatePageRequest{Name: "About", Slug: "   "})
	assert.ErrorIs(t, err, ErrSlugRequired)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewPageService(nil)

	bad := PageStatus("archived")
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), "user-1", &UpdatePageRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
