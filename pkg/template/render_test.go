package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render_SimpleSubstitution(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("greeting", "Hello, {{ name }}!", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada!", out)
}

func TestRenderer_Render_MissingVariableRendersEmpty(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("greeting", "Hello, {{ name }}!", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "Hello, !", out)
}

func TestRenderer_Render_DottedPathLookup(t *testing.T) {
	r := NewRenderer()
	vars := map[string]any{"user": map[string]any{"name": "Ada"}}
	out, err := r.Render("t", "Hi {{ user.name }}", vars)
	require.NoError(t, err)
	assert.Equal(t, "Hi Ada", out)
}

func TestRenderer_Render_Filters(t *testing.T) {
	r := NewRenderer()
	vars := map[string]any{"name": "  ada  "}

	out, err := r.Render("t", "{{ name | strip | upcase }}", vars)
	require.NoError(t, err)
	assert.Equal(t, "ADA", out)
}

func TestRenderer_Render_IfTrueBranch(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("t", "{% if ready %}go{% else %}wait{% endif %}", map[string]any{"ready": true})
	require.NoError(t, err)
	assert.Equal(t, "go", out)
}

func TestRenderer_Render_IfFalseBranchUsesElse(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("t", "{% if ready %}go{% else %}wait{% endif %}", map[string]any{"ready": false})
	require.NoError(t, err)
	assert.Equal(t, "wait", out)
}

func TestRenderer_Render_IfNot(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("t", "{% if not ready %}wait{% endif %}", map[string]any{"ready": false})
	require.NoError(t, err)
	assert.Equal(t, "wait", out)
}

func TestRenderer_Render_ForLoop(t *testing.T) {
	r := NewRenderer()
	vars := map[string]any{"models": []any{"gpt-5", "claude-opus"}}
	out, err := r.Render("t", "{% for m in models %}[{{ m }}]{% endfor %}", vars)
	require.NoError(t, err)
	assert.Equal(t, "[gpt-5][claude-opus]", out)
}

func TestRenderer_Render_ForLoopOverMissingVarIsEmpty(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("t", "{% for m in missing %}[{{ m }}]{% endfor %}", map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestRenderer_Render_UnclosedTagFails(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render("t", "{% if ready %}go", map[string]any{"ready": true})
	require.Error(t, err)
	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
}

func TestRenderer_Validate_CatchesMissingEndfor(t *testing.T) {
	r := NewRenderer()
	err := r.Validate("t", "{% for m in models %}{{ m }}")
	require.Error(t, err)
}

func TestRenderer_Validate_AcceptsWellFormedTemplate(t *testing.T) {
	r := NewRenderer()
	err := r.Validate("t", "{% if x %}{{ x }}{% endif %}")
	require.NoError(t, err)
}
